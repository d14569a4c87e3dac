package report

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/cexll/devbot/internal/changeset"
)

var nowFunc = time.Now

const reportTemplate = `---
filename: "%s"
title: "Report: %s"
createdAt: %s
updatedAt: %s
plan_file: "%s"
project: "%s"
status: completed
files_created: %d
files_modified: %d
files_deleted: 0
tags: [report, automated]
documentType: IMPLEMENTATION_REPORT
---

# Summary
The AI Agent successfully executed the plan ` + "`%s`" + `. All steps marked in the plan were processed, and a Pull Request has been generated.

# Files Changed
## Created
%s

## Modified
%s

# Key Changes
- Automated implementation of logic defined in the plan.
- Integration with Git for version control.

# Technical Decisions
- Used direct file manipulation for speed.
- Maintained existing project structure.

# Testing Notes
- Check the generated PR for CI/CD results.
- Manual verification of the created files is recommended.
`

// Writer is the file surface the emitter needs.
type Writer interface {
	Write(path, content string) error
}

// Emitter writes the implementation report after a completed task run.
type Emitter struct {
	fs      Writer
	dir     string
	project string
	logger  *log.Logger
}

// NewEmitter builds an Emitter writing into dir for the given
// owner/repo project. A nil logger falls back to the default logger.
func NewEmitter(fs Writer, dir, project string, logger *log.Logger) *Emitter {
	if logger == nil {
		logger = log.Default()
	}
	return &Emitter{
		fs:      fs,
		dir:     dir,
		project: project,
		logger:  logger,
	}
}

// Emit renders the report for one completed run and writes it next to
// the other reports. It returns the report path; a write failure is the
// caller's to log, the run itself already finished.
func (e *Emitter) Emit(taskName, planPath string, changes *changeset.ChangeSet) (string, error) {
	now := nowFunc()
	timestamp := now.Format("2006-01-02 15:04")
	reportPath := filepath.Join(e.dir, fmt.Sprintf("%s__IMPLEMENTATION_REPORT__%s.md", now.Format("060102"), taskName))

	content := fmt.Sprintf(reportTemplate,
		reportPath,
		taskName,
		timestamp,
		timestamp,
		planPath,
		e.project,
		changes.CreatedCount(),
		changes.ModifiedCount(),
		planPath,
		formatList(changes.Created()),
		formatList(changes.Modified()),
	)

	if err := e.fs.Write(reportPath, content); err != nil {
		return reportPath, fmt.Errorf("failed to write report %s: %w", reportPath, err)
	}

	e.logger.Printf("[Report] Generated: %s", reportPath)
	return reportPath, nil
}

func formatList(paths []string) string {
	if len(paths) == 0 {
		return "None"
	}
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = "- " + p
	}
	return strings.Join(lines, "\n")
}
