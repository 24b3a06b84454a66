// Package wizard owns the state of one in-progress listing submission: the
// draft, the current step, the visible error map and the per-category media
// uploads. Every operation replaces the draft value wholesale, so callers
// holding the previous pointer never observe partial mutation.
package wizard

import (
	"fmt"
	"time"

	"tvicladmin/internal/listing"
)

const (
	FirstStep = 1
	LastStep  = 7
	MediaStep = 5
)

// FileRemover releases a stored preview file. Hooked up by the service layer
// so removing a media entry (or resetting the draft) deletes its file on disk.
type FileRemover func(ref string)

type Options struct {
	Remove FileRemover
	Now    func() time.Time
}

type Wizard struct {
	draft     *listing.Draft
	step      int
	errors    map[string]string
	readiness listing.MediaReadiness
	remove    FileRemover
	now       func() time.Time
}

func New(opts Options) *Wizard {
	w := &Wizard{
		step:   FirstStep,
		errors: map[string]string{},
		remove: opts.Remove,
		now:    opts.Now,
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.remove == nil {
		w.remove = func(string) {}
	}
	w.draft = listing.DefaultDraft(w.now())
	return w
}

// Restore rebuilds a wizard around a previously saved draft and step.
func Restore(d *listing.Draft, step int, opts Options) *Wizard {
	w := New(opts)
	if d != nil {
		w.draft = d
	}
	if step >= FirstStep && step <= LastStep {
		w.step = step
	}
	w.syncReadiness()
	return w
}

func (w *Wizard) Draft() *listing.Draft             { return w.draft }
func (w *Wizard) Step() int                         { return w.step }
func (w *Wizard) Errors() map[string]string         { return w.errors }
func (w *Wizard) Readiness() listing.MediaReadiness { return w.readiness }

// ApplyField applies one field change. A successful change clears the error
// entry keyed by the path (if any) and prunes media whose category vanished
// because of a room-count change.
func (w *Wizard) ApplyField(ch listing.FieldChange) error {
	next, err := w.draft.Apply(ch)
	if err != nil {
		return err
	}
	w.draft = next
	delete(w.errors, ch.Path.String())
	w.pruneOrphanedMedia()
	w.syncReadiness()
	return nil
}

func (w *Wizard) AddContact() {
	next := w.draft.Clone()
	next.ContactPerson = append(next.ContactPerson, listing.Contact{})
	w.draft = next
}

func (w *Wizard) RemoveContact(index int) error {
	if index < 0 || index >= len(w.draft.ContactPerson) {
		return fmt.Errorf("contact index %d out of range", index)
	}
	next := w.draft.Clone()
	next.ContactPerson = append(next.ContactPerson[:index], next.ContactPerson[index+1:]...)
	w.draft = next
	return nil
}

func (w *Wizard) AddPaymentPlan() {
	next := w.draft.Clone()
	next.PaymentPlans = append(next.PaymentPlans, listing.PaymentPlan{})
	w.draft = next
}

func (w *Wizard) RemovePaymentPlan(index int) error {
	if index < 0 || index >= len(w.draft.PaymentPlans) {
		return fmt.Errorf("payment plan index %d out of range", index)
	}
	next := w.draft.Clone()
	next.PaymentPlans = append(next.PaymentPlans[:index], next.PaymentPlans[index+1:]...)
	w.draft = next
	return nil
}

// PrefillContact fills the first contact slot from the signed-in operator
// ("Use My Data").
func (w *Wizard) PrefillContact(c listing.Contact) {
	next := w.draft.Clone()
	if len(next.ContactPerson) == 0 {
		next.ContactPerson = []listing.Contact{c}
	} else {
		next.ContactPerson[0] = c
	}
	w.draft = next
}

// Advance validates the current step and moves forward when it passes. The
// returned result carries the freshly rebuilt error map either way.
func (w *Wizard) Advance() listing.StepResult {
	if w.step == MediaStep {
		w.syncReadiness()
	}
	res := listing.ValidateStep(w.draft, w.step, listing.StepOptions{
		Now:   w.now(),
		Media: w.readiness,
	})
	w.errors = res.Errors
	if !res.Valid {
		return res
	}
	if w.step == MediaStep {
		w.readiness = listing.MediaFullyValidated
	}
	if w.step < LastStep {
		w.step++
	}
	return res
}

func (w *Wizard) Back() {
	if w.step > FirstStep {
		w.step--
	}
}

// Reset discards the draft, releases every stored file and returns to step 1.
func (w *Wizard) Reset() {
	for _, m := range w.draft.Media {
		if m.FileRef != "" {
			w.remove(m.FileRef)
		}
	}
	for _, doc := range w.draft.LegalDocuments {
		if doc.FileRef != "" {
			w.remove(doc.FileRef)
		}
	}
	w.draft = listing.DefaultDraft(w.now())
	w.step = FirstStep
	w.errors = map[string]string{}
	w.readiness = listing.MediaIncomplete
}

// Categories returns the generator output for the current draft.
func (w *Wizard) Categories() []listing.Category {
	return listing.GenerateCategories(w.draft)
}

// pruneOrphanedMedia drops media whose category id no longer exists after a
// room-count change, releasing the stored files. Orphans are pruned rather
// than silently carried into the submitted payload.
func (w *Wizard) pruneOrphanedMedia() {
	valid := map[string]bool{}
	for _, c := range listing.GenerateCategories(w.draft) {
		valid[c.ID] = true
	}
	kept := w.draft.Media[:0:0]
	for _, m := range w.draft.Media {
		if valid[m.Category] {
			kept = append(kept, m)
			continue
		}
		if m.FileRef != "" {
			w.remove(m.FileRef)
		}
	}
	if len(kept) != len(w.draft.Media) {
		next := w.draft.Clone()
		next.Media = kept
		w.draft = next
	}
}

func (w *Wizard) syncReadiness() {
	if w.Complete() {
		if w.readiness < listing.MediaStructurallyValid {
			w.readiness = listing.MediaStructurallyValid
		}
	} else {
		w.readiness = listing.MediaIncomplete
	}
}
