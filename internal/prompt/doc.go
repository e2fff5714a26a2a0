// Package prompt asks the template's questions that were not answered on
// the command line. Terminals get survey-driven prompts; pipes and tests get
// plain numbered menus read line by line.
package prompt
