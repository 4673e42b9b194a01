package editor

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	models "github.com/BitOnUranus/base64/internal/domain/models/editor"
)

// diffContent summarizes the edits that turn saved into current.
func diffContent(saved, current string) models.ChangeSummary {
	summary := models.ChangeSummary{Changes: []models.ContentChange{}}
	if saved == current {
		return summary
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(saved, current, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	for _, d := range diffs {
		change := models.ContentChange{Text: d.Text}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			change.Op = models.ChangeInsert
			summary.Inserted += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			change.Op = models.ChangeDelete
			summary.Deleted += utf8.RuneCountInString(d.Text)
		default:
			change.Op = models.ChangeEqual
		}
		summary.Changes = append(summary.Changes, change)
	}
	return summary
}
