package protocol

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Command
	}{
		{
			name:  "read file",
			reply: "READ_FILE src/main.go",
			want:  ReadFile{Path: "src/main.go"},
		},
		{
			name:  "read file path with spaces",
			reply: "READ_FILE docs/release notes.md",
			want:  ReadFile{Path: "docs/release notes.md"},
		},
		{
			name:  "read file missing path",
			reply: "READ_FILE",
			want:  Malformed{Diagnostic: "Error: READ_FILE requires a path"},
		},
		{
			name:  "list files with path",
			reply: "LIST_FILES internal",
			want:  ListFiles{Path: "internal"},
		},
		{
			name:  "list files defaults to current directory",
			reply: "LIST_FILES",
			want:  ListFiles{Path: "."},
		},
		{
			name:  "write file with payload",
			reply: "WRITE_FILE foo.txt\n<<<<\nhello\n>>>>",
			want:  WriteFile{Path: "foo.txt", Content: "hello"},
		},
		{
			name:  "write file multiline payload keeps interior newlines",
			reply: "WRITE_FILE a.go\n<<<<\npackage a\n\nfunc B() {}\n>>>>",
			want:  WriteFile{Path: "a.go", Content: "package a\n\nfunc B() {}"},
		},
		{
			name:  "write file missing markers",
			reply: "WRITE_FILE foo.txt\nhello",
			want:  Malformed{Diagnostic: "Error: Invalid WRITE_FILE format. Use <<<< and >>>>"},
		},
		{
			name:  "write file unclosed marker",
			reply: "WRITE_FILE foo.txt\n<<<<\nhello",
			want:  Malformed{Diagnostic: "Error: Invalid WRITE_FILE format. Use <<<< and >>>>"},
		},
		{
			name:  "write file missing path",
			reply: "WRITE_FILE\n<<<<\nhello\n>>>>",
			want:  Malformed{Diagnostic: "Error: WRITE_FILE requires a path"},
		},
		{
			name:  "exec command keeps its arguments",
			reply: "EXEC_CMD go test ./...",
			want:  ExecCmd{Command: "go test ./..."},
		},
		{
			name:  "exec command missing argument",
			reply: "EXEC_CMD",
			want:  Malformed{Diagnostic: "Error: EXEC_CMD requires a command"},
		},
		{
			name:  "done with title only",
			reply: "DONE Fix the login bug",
			want:  Done{Title: "Fix the login bug"},
		},
		{
			name:  "done with title and body",
			reply: "DONE Fix bug\n<<<<\nBody text\n>>>>",
			want:  Done{Title: "Fix bug", Body: "Body text", HasBody: true},
		},
		{
			name:  "done without title",
			reply: "DONE",
			want:  Done{Title: ""},
		},
		{
			name:  "done with unclosed marker",
			reply: "DONE Fix bug\n<<<<\nBody text",
			want:  Malformed{Diagnostic: "Error: Invalid DONE format. Use <<<< and >>>>"},
		},
		{
			name:  "unrecognized first line",
			reply: "Let me look at the code first.",
			want:  Malformed{Diagnostic: "No tool command found."},
		},
		{
			name:  "empty reply",
			reply: "",
			want:  Malformed{Diagnostic: "No tool command found."},
		},
		{
			name:  "first line is trimmed",
			reply: "  READ_FILE main.go  \nrest ignored",
			want:  ReadFile{Path: "main.go"},
		},
		{
			name:  "keyword must match exactly",
			reply: "READ_FILES main.go",
			want:  Malformed{Diagnostic: "No tool command found."},
		},
		{
			name:  "lowercase keyword is not a command",
			reply: "read_file main.go",
			want:  Malformed{Diagnostic: "No tool command found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.reply)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestSignalsCompletion(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{name: "first line command", reply: "DONE Fix bug", want: true},
		{name: "keyword buried in prose", reply: "The refactor is DONE, shipping it.", want: true},
		{name: "keyword inside payload", reply: "WRITE_FILE x\n<<<<\nDONE\n>>>>", want: true},
		{name: "lowercase does not count", reply: "all done here", want: false},
		{name: "no keyword", reply: "READ_FILE main.go", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignalsCompletion(tt.reply); got != tt.want {
				t.Errorf("SignalsCompletion(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestDoneFromReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Done
	}{
		{
			name:  "title and body",
			reply: "DONE Fix bug\n<<<<\nBody text\n>>>>",
			want:  Done{Title: "Fix bug", Body: "Body text", HasBody: true},
		},
		{
			name:  "title only",
			reply: "DONE Add caching layer",
			want:  Done{Title: "Add caching layer"},
		},
		{
			name:  "keyword not on first line keeps first line as title",
			reply: "READ_FILE x\nAll DONE now",
			want:  Done{Title: "READ_FILE x"},
		},
		{
			name:  "unclosed marker takes the rest of the reply",
			reply: "DONE Ship it\n<<<<\neverything after the marker",
			want:  Done{Title: "Ship it", Body: "everything after the marker", HasBody: true},
		},
		{
			name:  "every keyword occurrence leaves the title",
			reply: "DONE DONE Ship it",
			want:  Done{Title: "Ship it"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DoneFromReply(tt.reply)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DoneFromReply(%q) = %#v, want %#v", tt.reply, got, tt.want)
			}
		})
	}
}
