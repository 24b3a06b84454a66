package wizard

import (
	"fmt"
	"strings"

	"tvicladmin/internal/listing"
)

const MaxFileSize = 10 << 20 // 10 MB per file

var imageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/heic"}

// Legal documents additionally accept PDFs.
var documentTypes = []string{"application/pdf", "image/jpeg", "image/png", "image/webp"}

// FileMeta describes an incoming file before anything is stored.
type FileMeta struct {
	Name        string
	ContentType string
	Size        int64
}

// StoredFile is a file the service layer has already written to disk.
type StoredFile struct {
	Name        string
	ContentType string
	URL         string
	Ref         string
}

type RejectedFile struct {
	Name   string
	Reason string
}

// BatchError reports every offending file in a rejected upload batch. The
// batch is rejected atomically: one bad file rejects them all.
type BatchError struct {
	Rejected []RejectedFile
}

func (e *BatchError) Error() string {
	lines := make([]string, len(e.Rejected))
	for i, r := range e.Rejected {
		lines[i] = fmt.Sprintf("%s %s", r.Name, r.Reason)
	}
	return fmt.Sprintf("%d file(s) rejected: %s", len(e.Rejected), strings.Join(lines, "; "))
}

// CheckBatch validates file types and sizes for a category before anything
// is stored. Returns a *BatchError naming every offending file, or nil.
func CheckBatch(categoryID string, files []FileMeta) error {
	allowed := imageTypes
	if categoryID == listing.CategoryLegalDocs {
		allowed = documentTypes
	}
	var rejected []RejectedFile
	for _, f := range files {
		ct := strings.ToLower(f.ContentType)
		switch {
		case !contains(allowed, ct):
			rejected = append(rejected, RejectedFile{Name: f.Name, Reason: "(invalid format)"})
		case f.Size > MaxFileSize:
			rejected = append(rejected, RejectedFile{Name: f.Name, Reason: "exceeds 10MB"})
		}
	}
	if len(rejected) > 0 {
		return &BatchError{Rejected: rejected}
	}
	return nil
}

// AttachFiles appends stored files to an ordinary category. The first-ever
// cover upload is auto-marked primary. The flat media list is rebuilt in
// generator order afterwards.
func (w *Wizard) AttachFiles(categoryID, subCategory string, files []StoredFile) error {
	if categoryID == listing.CategoryLegalDocs {
		return fmt.Errorf("legal documents use AttachDocument")
	}
	if !w.categoryExists(categoryID) {
		return fmt.Errorf("unknown media category %q", categoryID)
	}

	byCat := w.partition()
	current := byCat[categoryID]

	sub := subCategory
	if categoryID == "cover" {
		sub = "cover"
	} else if sub == "" {
		sub = "gallery"
	}

	for i, f := range files {
		current = append(current, listing.MediaItem{
			URL:         f.URL,
			FileRef:     f.Ref,
			Type:        "image",
			Category:    categoryID,
			SubCategory: sub,
			IsPrimary:   categoryID == "cover" && len(byCat[categoryID]) == 0 && i == 0,
			UploadedAt:  w.now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	byCat[categoryID] = current
	w.flatten(byCat)
	delete(w.errors, categoryID)
	w.syncReadiness()
	return nil
}

// AttachDocument stores one legal document in its named slot. Re-uploading
// for the same key replaces the previous file.
func (w *Wizard) AttachDocument(docKey string, f StoredFile) error {
	if !contains(listing.DocTypes, docKey) {
		return fmt.Errorf("unknown document type %q", docKey)
	}
	next := w.draft.Clone()
	if old := next.LegalDocuments[docKey]; old.FileRef != "" {
		w.remove(old.FileRef)
	}
	docType := "document"
	if parts := strings.SplitN(f.ContentType, "/", 2); parts[0] == "image" {
		docType = "image"
	}
	next.LegalDocuments[docKey] = listing.LegalDocument{
		Present: true,
		URL:     f.URL,
		FileRef: f.Ref,
		Type:    docType,
	}
	w.draft = next
	return nil
}

// RemoveDocument clears a legal-document slot and releases its file.
func (w *Wizard) RemoveDocument(docKey string) error {
	if !contains(listing.DocTypes, docKey) {
		return fmt.Errorf("unknown document type %q", docKey)
	}
	next := w.draft.Clone()
	if old := next.LegalDocuments[docKey]; old.FileRef != "" {
		w.remove(old.FileRef)
	}
	next.LegalDocuments[docKey] = listing.LegalDocument{}
	w.draft = next
	return nil
}

// SetPrimary marks one cover entry primary and clears the flag on siblings.
// Only meaningful for the cover category.
func (w *Wizard) SetPrimary(categoryID string, index int) error {
	if categoryID != "cover" {
		return fmt.Errorf("primary image lives in the cover category")
	}
	byCat := w.partition()
	items := byCat[categoryID]
	if index < 0 || index >= len(items) {
		return fmt.Errorf("media index %d out of range", index)
	}
	for i := range items {
		items[i].IsPrimary = i == index
	}
	byCat[categoryID] = items
	w.flatten(byCat)
	return nil
}

// RemoveFile removes one entry by index within its category. If the removed
// cover image was primary and others remain, the new first entry takes over,
// so the cover category always has exactly one primary while non-empty.
func (w *Wizard) RemoveFile(categoryID string, index int) error {
	byCat := w.partition()
	items := byCat[categoryID]
	if index < 0 || index >= len(items) {
		return fmt.Errorf("media index %d out of range", index)
	}
	removed := items[index]
	items = append(items[:index], items[index+1:]...)
	if categoryID == "cover" && removed.IsPrimary && len(items) > 0 {
		items[0].IsPrimary = true
	}
	byCat[categoryID] = items
	w.flatten(byCat)
	if removed.FileRef != "" {
		w.remove(removed.FileRef)
	}
	w.syncReadiness()
	return nil
}

func (w *Wizard) SetCaption(categoryID string, index int, caption string) error {
	byCat := w.partition()
	items := byCat[categoryID]
	if index < 0 || index >= len(items) {
		return fmt.Errorf("media index %d out of range", index)
	}
	items[index].Caption = caption
	byCat[categoryID] = items
	w.flatten(byCat)
	return nil
}

// CategoryProgress reports one category's completion state: "complete",
// "incomplete" for unmet required categories, "optional" for untouched
// optional ones.
func (w *Wizard) CategoryProgress(c listing.Category) string {
	count := len(w.partition()[c.ID])
	if c.Required {
		if count >= c.MinImages {
			return "complete"
		}
		return "incomplete"
	}
	if count > 0 {
		return "complete"
	}
	return "optional"
}

// Complete reports whether every required category has met its minimum; this
// is the step-5 progression gate.
func (w *Wizard) Complete() bool {
	for _, c := range w.Categories() {
		if c.Required && w.CategoryProgress(c) != "complete" {
			return false
		}
	}
	return true
}

// Media returns the per-category view of the flat media list.
func (w *Wizard) Media() map[string][]listing.MediaItem { return w.partition() }

func (w *Wizard) categoryExists(id string) bool {
	for _, c := range w.Categories() {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (w *Wizard) partition() map[string][]listing.MediaItem {
	out := map[string][]listing.MediaItem{}
	for _, m := range w.draft.Media {
		out[m.Category] = append(out[m.Category], m)
	}
	return out
}

// flatten rebuilds draft.Media as the concatenation of all categories in
// generator order. Legal documents stay out of the flat list.
func (w *Wizard) flatten(byCat map[string][]listing.MediaItem) {
	next := w.draft.Clone()
	flat := make([]listing.MediaItem, 0, len(next.Media))
	for _, c := range listing.GenerateCategories(next) {
		flat = append(flat, byCat[c.ID]...)
	}
	next.Media = flat
	w.draft = next
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
