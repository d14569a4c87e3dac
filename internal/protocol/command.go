package protocol

// Keywords recognized on the first line of a model reply.
const (
	KeywordReadFile  = "READ_FILE"
	KeywordListFiles = "LIST_FILES"
	KeywordWriteFile = "WRITE_FILE"
	KeywordExecCmd   = "EXEC_CMD"
	KeywordDone      = "DONE"
)

// Payload delimiters for WRITE_FILE content and DONE descriptions.
const (
	OpenMarker  = "<<<<"
	CloseMarker = ">>>>"
)

// Command is one parsed model instruction. Implementations are the only
// variants Parse can produce, so a type switch over them is exhaustive.
type Command interface {
	isCommand()
}

// ReadFile asks for the contents of a single file.
type ReadFile struct {
	Path string
}

// ListFiles asks for a recursive listing under Path.
type ListFiles struct {
	Path string
}

// WriteFile replaces the contents of Path with Content.
type WriteFile struct {
	Path    string
	Content string
}

// ExecCmd runs a shell command in the checkout.
type ExecCmd struct {
	Command string
}

// Done ends the run. Title feeds the commit message and PR title; Body
// is the optional marker payload (HasBody distinguishes an empty payload
// from no payload at all).
type Done struct {
	Title   string
	Body    string
	HasBody bool
}

// Malformed carries the diagnostic fed back to the model when a reply
// does not parse. It is never fatal.
type Malformed struct {
	Diagnostic string
}

func (ReadFile) isCommand()  {}
func (ListFiles) isCommand() {}
func (WriteFile) isCommand() {}
func (ExecCmd) isCommand()   {}
func (Done) isCommand()      {}
func (Malformed) isCommand() {}
