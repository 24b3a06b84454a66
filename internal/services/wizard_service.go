package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tvicladmin/internal/domain"
	"tvicladmin/internal/listing"
	"tvicladmin/internal/platform"
	"tvicladmin/internal/repos"
	"tvicladmin/internal/wizard"

	"github.com/google/uuid"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrNotOwner      = errors.New("draft belongs to another user")
)

// WizardService owns listing drafts: their database rows, their media files
// under MediaDir, and their one-way trip to the platform on submit.
type WizardService struct {
	Drafts   *repos.DraftRepo
	MediaDir string
	Platform *platform.Client
}

func (s *WizardService) remover() wizard.FileRemover {
	return func(ref string) {
		if ref == "" {
			return
		}
		_ = os.Remove(filepath.Join(s.MediaDir, filepath.FromSlash(ref)))
	}
}

func (s *WizardService) wizardOptions() wizard.Options {
	return wizard.Options{Remove: s.remover(), Now: time.Now}
}

func (s *WizardService) CreateDraft(userID string) (*domain.DraftRecord, *wizard.Wizard, error) {
	w := wizard.New(s.wizardOptions())
	payload, err := json.Marshal(w.Draft())
	if err != nil {
		return nil, nil, err
	}
	rec := &domain.DraftRecord{
		ID:      uuid.NewString(),
		UserID:  userID,
		Step:    w.Step(),
		Payload: string(payload),
	}
	if err := s.Drafts.Create(rec); err != nil {
		return nil, nil, err
	}
	return rec, w, nil
}

// Load rebuilds the wizard for a stored draft, refusing drafts owned by
// someone else.
func (s *WizardService) Load(id, userID string) (*wizard.Wizard, error) {
	rec, err := s.Drafts.ByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrNotOwner
	}
	var d listing.Draft
	if err := json.Unmarshal([]byte(rec.Payload), &d); err != nil {
		return nil, fmt.Errorf("corrupt draft %s: %w", id, err)
	}
	return wizard.Restore(&d, rec.Step, s.wizardOptions()), nil
}

func (s *WizardService) Persist(id string, w *wizard.Wizard) error {
	payload, err := json.Marshal(w.Draft())
	if err != nil {
		return err
	}
	return s.Drafts.Save(id, w.Step(), string(payload))
}

func (s *WizardService) List(userID string) ([]domain.DraftRecord, error) {
	return s.Drafts.ByUser(userID)
}

// StoreUpload writes one multipart file under the draft's media directory and
// returns its descriptor. The ref is relative to MediaDir and doubles as the
// tail of the public /media URL.
func (s *WizardService) StoreUpload(draftID string, fh *multipart.FileHeader) (wizard.StoredFile, error) {
	src, err := fh.Open()
	if err != nil {
		return wizard.StoredFile{}, err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	ref := "drafts/" + draftID + "/" + uuid.NewString() + ext

	dst := filepath.Join(s.MediaDir, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return wizard.StoredFile{}, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return wizard.StoredFile{}, err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return wizard.StoredFile{}, err
	}

	return wizard.StoredFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		URL:         "/media/" + ref,
		Ref:         ref,
	}, nil
}

// OpenFile resolves a stored ref, rejecting anything that escapes MediaDir.
func (s *WizardService) OpenFile(ref string) (io.ReadCloser, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("bad media ref %q", ref)
	}
	return os.Open(filepath.Join(s.MediaDir, clean))
}

// Submit pushes a finished draft to the platform. On success the draft row
// and its media files are gone; on failure everything stays for another try.
func (s *WizardService) Submit(ctx context.Context, id string, w *wizard.Wizard) (json.RawMessage, error) {
	created, err := s.Platform.CreateProperty(ctx, w.Draft(), platform.FileOpener(s.OpenFile))
	if err != nil {
		return nil, err
	}
	w.Reset()
	_ = os.RemoveAll(filepath.Join(s.MediaDir, "drafts", id))
	if err := s.Drafts.Delete(id); err != nil {
		return created, err
	}
	return created, nil
}

// Discard drops a draft and releases its media files.
func (s *WizardService) Discard(id string, w *wizard.Wizard) error {
	w.Reset()
	_ = os.RemoveAll(filepath.Join(s.MediaDir, "drafts", id))
	return s.Drafts.Delete(id)
}
