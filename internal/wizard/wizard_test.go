package wizard

import (
	"fmt"
	"testing"
	"time"

	"tvicladmin/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type removeLog struct{ refs []string }

func (r *removeLog) remove(ref string) { r.refs = append(r.refs, ref) }

func newTestWizard(t *testing.T) (*Wizard, *removeLog) {
	t.Helper()
	rl := &removeLog{}
	w := New(Options{Remove: rl.remove, Now: func() time.Time { return testNow }})
	return w, rl
}

func mustApply(t *testing.T, w *Wizard, path string, v any) {
	t.Helper()
	p, err := listing.ParsePath(path)
	require.NoError(t, err)
	require.NoError(t, w.ApplyField(listing.FieldChange{Path: p, Value: v}))
}

func storedImage(name string) StoredFile {
	return StoredFile{
		Name:        name,
		ContentType: "image/jpeg",
		URL:         "https://cdn.tvicl.test/" + name,
		Ref:         "drafts/d1/" + name,
	}
}

func setupBungalow(t *testing.T, w *Wizard) {
	t.Helper()
	mustApply(t, w, "propertyType", "Bungalow")
	mustApply(t, w, "bedrooms", 2)
}

func TestNewStartsAtStepOne(t *testing.T) {
	w, _ := newTestWizard(t)
	assert.Equal(t, FirstStep, w.Step())
	assert.Empty(t, w.Errors())
	assert.Equal(t, 1, w.Draft().Bedrooms)
}

func TestAdvanceBlocksOnErrors(t *testing.T) {
	w, _ := newTestWizard(t)
	res := w.Advance()
	assert.False(t, res.Valid)
	assert.Equal(t, FirstStep, w.Step())
	assert.Equal(t, "Title is required", w.Errors()["title"])
}

func TestAdvanceMovesForward(t *testing.T) {
	w, _ := newTestWizard(t)
	mustApply(t, w, "title", "3-Bedroom Bungalow, Enugu")
	mustApply(t, w, "description",
		"Well maintained bungalow close to schools, markets and the expressway junction.")
	mustApply(t, w, "propertyType", "Bungalow")
	mustApply(t, w, "listingType", "For Sale")
	res := w.Advance()
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Equal(t, 2, w.Step())

	w.Back()
	assert.Equal(t, 1, w.Step())
	w.Back()
	assert.Equal(t, 1, w.Step())
}

func TestApplyFieldClearsMatchingError(t *testing.T) {
	w, _ := newTestWizard(t)
	w.Advance() // populate step-1 errors
	require.Contains(t, w.Errors(), "title")
	mustApply(t, w, "title", "Now present")
	assert.NotContains(t, w.Errors(), "title")
	// Other errors stay until the next validation pass.
	assert.Contains(t, w.Errors(), "description")
}

func TestCheckBatchRejectsAtomically(t *testing.T) {
	files := []FileMeta{
		{Name: "ok.jpg", ContentType: "image/jpeg", Size: 1 << 20},
		{Name: "huge.png", ContentType: "image/png", Size: MaxFileSize + 1},
		{Name: "notes.txt", ContentType: "text/plain", Size: 100},
	}
	err := CheckBatch("cover", files)
	var batch *BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Rejected, 2)
	assert.Equal(t, "huge.png", batch.Rejected[0].Name)
	assert.Equal(t, "exceeds 10MB", batch.Rejected[0].Reason)
	assert.Equal(t, "notes.txt", batch.Rejected[1].Name)
	assert.Equal(t, "(invalid format)", batch.Rejected[1].Reason)
	assert.Contains(t, err.Error(), "2 file(s) rejected")
}

func TestCheckBatchBoundarySize(t *testing.T) {
	assert.NoError(t, CheckBatch("cover", []FileMeta{
		{Name: "exact.jpg", ContentType: "image/jpeg", Size: MaxFileSize},
	}))
}

func TestCheckBatchPDFOnlyForDocuments(t *testing.T) {
	pdf := []FileMeta{{Name: "c-of-o.pdf", ContentType: "application/pdf", Size: 1 << 20}}
	assert.Error(t, CheckBatch("cover", pdf))
	assert.NoError(t, CheckBatch(listing.CategoryLegalDocs, pdf))
}

func TestAttachFilesCoverAutoPrimary(t *testing.T) {
	w, _ := newTestWizard(t)
	setupBungalow(t, w)

	require.NoError(t, w.AttachFiles("cover", "", []StoredFile{storedImage("a.jpg")}))
	media := w.Media()["cover"]
	require.Len(t, media, 1)
	assert.True(t, media[0].IsPrimary)
	assert.Equal(t, "cover", media[0].SubCategory)

	// A later cover upload does not steal the flag.
	require.NoError(t, w.AttachFiles("cover", "", []StoredFile{storedImage("b.jpg")}))
	media = w.Media()["cover"]
	require.Len(t, media, 2)
	assert.True(t, media[0].IsPrimary)
	assert.False(t, media[1].IsPrimary)
}

func TestAttachFilesRejectsUnknownCategory(t *testing.T) {
	w, _ := newTestWizard(t)
	setupBungalow(t, w)
	err := w.AttachFiles("bedroom_9", "", []StoredFile{storedImage("x.jpg")})
	assert.Error(t, err)
	err = w.AttachFiles(listing.CategoryLegalDocs, "", []StoredFile{storedImage("x.jpg")})
	assert.Error(t, err)
}

func TestSetPrimaryIsExclusive(t *testing.T) {
	w, _ := newTestWizard(t)
	setupBungalow(t, w)
	require.NoError(t, w.AttachFiles("cover", "", []StoredFile{storedImage("a.jpg"), storedImage("b.jpg")}))

	require.NoError(t, w.SetPrimary("cover", 1))
	media := w.Media()["cover"]
	assert.False(t, media[0].IsPrimary)
	assert.True(t, media[1].IsPrimary)

	assert.Error(t, w.SetPrimary("exterior", 0))
	assert.Error(t, w.SetPrimary("cover", 5))
}

func TestRemoveFileReassignsPrimary(t *testing.T) {
	w, rl := newTestWizard(t)
	setupBungalow(t, w)
	require.NoError(t, w.AttachFiles("cover", "", []StoredFile{storedImage("a.jpg"), storedImage("b.jpg")}))

	require.NoError(t, w.RemoveFile("cover", 0))
	media := w.Media()["cover"]
	require.Len(t, media, 1)
	assert.True(t, media[0].IsPrimary, "remaining cover image takes over the primary flag")
	assert.Equal(t, []string{"drafts/d1/a.jpg"}, rl.refs)

	// Removing the last cover image leaves the category empty.
	require.NoError(t, w.RemoveFile("cover", 0))
	assert.Empty(t, w.Media()["cover"])
}

func TestRemoveFileNonPrimaryKeepsFlag(t *testing.T) {
	w, _ := newTestWizard(t)
	setupBungalow(t, w)
	require.NoError(t, w.AttachFiles("cover", "", []StoredFile{storedImage("a.jpg"), storedImage("b.jpg")}))

	require.NoError(t, w.RemoveFile("cover", 1))
	media := w.Media()["cover"]
	require.Len(t, media, 1)
	assert.True(t, media[0].IsPrimary)
}

func TestSetCaption(t *testing.T) {
	w, _ := newTestWizard(t)
	setupBungalow(t, w)
	require.NoError(t, w.AttachFiles("exterior", "", []StoredFile{storedImage("front.jpg")}))
	require.NoError(t, w.SetCaption("exterior", 0, "Front view at dusk"))
	assert.Equal(t, "Front view at dusk", w.Media()["exterior"][0].Caption)
}

func TestRoomCountChangePrunesOrphans(t *testing.T) {
	w, rl := newTestWizard(t)
	setupBungalow(t, w) // 2 bedrooms
	require.NoError(t, w.AttachFiles("bedroom_2", "", []StoredFile{storedImage("b2.jpg")}))
	require.NoError(t, w.AttachFiles("bedroom_1", "", []StoredFile{storedImage("b1.jpg")}))

	mustApply(t, w, "bedrooms", 1)

	media := w.Media()
	assert.Empty(t, media["bedroom_2"])
	require.Len(t, media["bedroom_1"], 1)
	assert.Contains(t, rl.refs, "drafts/d1/b2.jpg")
	assert.NotContains(t, rl.refs, "drafts/d1/b1.jpg")
}

func TestAttachDocumentReplacesSlot(t *testing.T) {
	w, rl := newTestWizard(t)
	setupBungalow(t, w)

	doc := StoredFile{Name: "cofo.pdf", ContentType: "application/pdf",
		URL: "https://cdn.tvicl.test/cofo.pdf", Ref: "drafts/d1/cofo.pdf"}
	require.NoError(t, w.AttachDocument("cOfO", doc))
	got := w.Draft().LegalDocuments["cOfO"]
	assert.True(t, got.Present)
	assert.Equal(t, "document", got.Type)

	scan := StoredFile{Name: "cofo.jpg", ContentType: "image/jpeg",
		URL: "https://cdn.tvicl.test/cofo.jpg", Ref: "drafts/d1/cofo.jpg"}
	require.NoError(t, w.AttachDocument("cOfO", scan))
	got = w.Draft().LegalDocuments["cOfO"]
	assert.Equal(t, "image", got.Type)
	assert.Contains(t, rl.refs, "drafts/d1/cofo.pdf")

	assert.Error(t, w.AttachDocument("titleDeed", doc))

	require.NoError(t, w.RemoveDocument("cOfO"))
	assert.False(t, w.Draft().LegalDocuments["cOfO"].Present)
	assert.Contains(t, rl.refs, "drafts/d1/cofo.jpg")
}

func fillRequiredCategories(t *testing.T, w *Wizard) {
	t.Helper()
	for _, c := range w.Categories() {
		if !c.Required {
			continue
		}
		var files []StoredFile
		for i := 0; i < c.MinImages; i++ {
			files = append(files, storedImage(fmt.Sprintf("%s_%d.jpg", c.ID, i)))
		}
		require.NoError(t, w.AttachFiles(c.ID, "", files))
	}
}

func TestCategoryProgressAndCompletion(t *testing.T) {
	w, _ := newTestWizard(t)
	setupBungalow(t, w)

	byID := map[string]listing.Category{}
	for _, c := range w.Categories() {
		byID[c.ID] = c
	}
	assert.Equal(t, "incomplete", w.CategoryProgress(byID["cover"]))
	assert.Equal(t, "optional", w.CategoryProgress(byID["dining"]))
	assert.False(t, w.Complete())

	fillRequiredCategories(t, w)
	assert.Equal(t, "complete", w.CategoryProgress(byID["cover"]))
	assert.True(t, w.Complete())
	assert.Equal(t, listing.MediaStructurallyValid, w.Readiness())
}

func TestMediaStepGate(t *testing.T) {
	w, _ := newTestWizard(t)
	setupBungalow(t, w)

	// Force the wizard onto the media step with an incomplete layout.
	for w.Step() < MediaStep {
		w = Restore(w.Draft(), w.Step()+1, Options{Now: func() time.Time { return testNow }})
	}
	res := w.Advance()
	assert.False(t, res.Valid)
	assert.Equal(t, MediaStep, w.Step())

	fillRequiredCategories(t, w)
	res = w.Advance()
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Equal(t, MediaStep+1, w.Step())
	assert.Equal(t, listing.MediaFullyValidated, w.Readiness())
}

func TestResetReleasesEverything(t *testing.T) {
	w, rl := newTestWizard(t)
	setupBungalow(t, w)
	require.NoError(t, w.AttachFiles("cover", "", []StoredFile{storedImage("a.jpg")}))
	require.NoError(t, w.AttachDocument("surveyPlan", StoredFile{
		Name: "survey.pdf", ContentType: "application/pdf",
		URL: "https://cdn.tvicl.test/survey.pdf", Ref: "drafts/d1/survey.pdf",
	}))

	w.Reset()
	assert.Equal(t, FirstStep, w.Step())
	assert.Empty(t, w.Draft().Media)
	assert.Equal(t, "", w.Draft().PropertyType)
	assert.ElementsMatch(t, []string{"drafts/d1/a.jpg", "drafts/d1/survey.pdf"}, rl.refs)
}

func TestAddRemoveContactsAndPlans(t *testing.T) {
	w, _ := newTestWizard(t)
	w.AddContact()
	assert.Len(t, w.Draft().ContactPerson, 2)
	require.NoError(t, w.RemoveContact(1))
	assert.Len(t, w.Draft().ContactPerson, 1)
	assert.Error(t, w.RemoveContact(5))

	w.AddPaymentPlan()
	w.AddPaymentPlan()
	assert.Len(t, w.Draft().PaymentPlans, 2)
	require.NoError(t, w.RemovePaymentPlan(0))
	assert.Len(t, w.Draft().PaymentPlans, 1)

	w.PrefillContact(listing.Contact{Name: "Ada Obi", Phone: "08012345678", Email: "ada@tvicl.test", Role: "Agent"})
	assert.Equal(t, "Ada Obi", w.Draft().ContactPerson[0].Name)

	// A prefilled contact carries everything step 6 requires of it.
	errs := listing.ValidateStep(w.Draft(), 6, listing.StepOptions{Now: testNow}).Errors
	for _, k := range []string{"contact_0_name", "contact_0_phone", "contact_0_email", "contact_0_role"} {
		assert.NotContains(t, errs, k)
	}
}

func TestRestoreClampsStep(t *testing.T) {
	d := listing.DefaultDraft(testNow)
	w := Restore(d, 42, Options{Now: func() time.Time { return testNow }})
	assert.Equal(t, FirstStep, w.Step())
	w = Restore(d, 3, Options{Now: func() time.Time { return testNow }})
	assert.Equal(t, 3, w.Step())
}
