package terminal

import "strings"

const (
	cmdOpen    = "/open"
	cmdUpload  = "/upload"
	cmdAsk     = "/ask"
	cmdHistory = "/history"
	cmdStatus  = "/status"
	cmdExport  = "/export"
	cmdReset   = "/reset"
	cmdHelp    = "/help"
	cmdQuit    = "/quit"
	cmdExit    = "/exit"
)

const (
	msgWelcome      = "Document QA chat. Select PDF files, upload them, then ask questions."
	msgHelpHint     = "Type /help for commands."
	msgNewSession   = "New session started. Previous documents and history were cleared."
	msgEmptyHistory = "No questions asked yet."
	msgExportUsage  = "Usage: /export <file.md|file.pdf|file.docx>"
	msgExported     = "Transcript saved to %s"

	msgUnknownCommand = "Unknown command %s. Type /help for commands."

	msgHelp = `Commands:
  /open <file.pdf> [more files or globs]  select documents (replaces the current selection)
  /upload                                 upload the selected documents
  /ask <question>                         ask a question (plain text works too)
  /history                                show the conversation so far
  /status                                 show selection and upload state
  /export <file.md|.pdf|.docx>            save the conversation to a file
  /reset                                  start a new session
  /quit                                   exit`
)

// parseCommand splits "/cmd arg1 arg2" into a lower-cased command and its arguments.
func parseCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
