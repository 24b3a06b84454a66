package handlers

import (
	"mime/multipart"

	"tvicladmin/internal/listing"
	"tvicladmin/internal/log"
	"tvicladmin/internal/services"
	"tvicladmin/internal/wizard"

	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	Wizards *services.WizardService
}

func fileMetas(fhs []*multipart.FileHeader) []wizard.FileMeta {
	metas := make([]wizard.FileMeta, len(fhs))
	for i, fh := range fhs {
		metas[i] = wizard.FileMeta{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		}
	}
	return metas
}

// Upload attaches a batch of files to one media category. The whole batch is
// checked before anything touches disk; one bad file rejects them all.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	w, id, err := loadWizard(c, h.Wizards)
	if err != nil {
		return fail(c, err)
	}
	categoryID := c.Params("category")
	form, err := c.MultipartForm()
	if err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "multipart form required")
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		return jsonErr(c, fiber.StatusBadRequest, "no files in request")
	}

	if err := wizard.CheckBatch(categoryID, fileMetas(fhs)); err != nil {
		log.Info(c, "media.upload.rejected", map[string]any{"category": categoryID, "count": len(fhs)})
		return fail(c, err)
	}

	stored := make([]wizard.StoredFile, 0, len(fhs))
	for _, fh := range fhs {
		sf, err := h.Wizards.StoreUpload(id, fh)
		if err != nil {
			log.Error(c, "media.store", err, map[string]any{"file": fh.Filename})
			return fail(c, err)
		}
		stored = append(stored, sf)
	}

	sub := c.FormValue("subCategory")
	if err := w.AttachFiles(categoryID, sub, stored); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Wizards.Persist(id, w); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "media.upload", map[string]any{"category": categoryID, "count": len(stored)})
	return jsonOK(c, wizardView(w))
}

// UploadDocument replaces the file slot for one legal document.
func (h *MediaHandler) UploadDocument(c *fiber.Ctx) error {
	w, id, err := loadWizard(c, h.Wizards)
	if err != nil {
		return fail(c, err)
	}
	docKey := c.Params("doc")
	fh, err := c.FormFile("file")
	if err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "file part required")
	}
	if err := wizard.CheckBatch(listing.CategoryLegalDocs, fileMetas([]*multipart.FileHeader{fh})); err != nil {
		return fail(c, err)
	}
	sf, err := h.Wizards.StoreUpload(id, fh)
	if err != nil {
		return fail(c, err)
	}
	if err := w.AttachDocument(docKey, sf); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Wizards.Persist(id, w); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "media.document", map[string]any{"doc": docKey})
	return jsonOK(c, wizardView(w))
}

func (h *MediaHandler) RemoveDocument(c *fiber.Ctx) error {
	return h.mutate(c, func(c *fiber.Ctx, w *wizard.Wizard) error {
		return w.RemoveDocument(c.Params("doc"))
	})
}

func (h *MediaHandler) Remove(c *fiber.Ctx) error {
	return h.mutate(c, func(c *fiber.Ctx, w *wizard.Wizard) error {
		idx, err := c.ParamsInt("index")
		if err != nil {
			return err
		}
		return w.RemoveFile(c.Params("category"), idx)
	})
}

func (h *MediaHandler) SetPrimary(c *fiber.Ctx) error {
	return h.mutate(c, func(c *fiber.Ctx, w *wizard.Wizard) error {
		idx, err := c.ParamsInt("index")
		if err != nil {
			return err
		}
		return w.SetPrimary(c.Params("category"), idx)
	})
}

func (h *MediaHandler) SetCaption(c *fiber.Ctx) error {
	return h.mutate(c, func(c *fiber.Ctx, w *wizard.Wizard) error {
		idx, err := c.ParamsInt("index")
		if err != nil {
			return err
		}
		var req struct {
			Caption string `json:"caption"`
		}
		if err := c.BodyParser(&req); err != nil {
			return err
		}
		return w.SetCaption(c.Params("category"), idx, req.Caption)
	})
}

func (h *MediaHandler) mutate(c *fiber.Ctx, fn func(*fiber.Ctx, *wizard.Wizard) error) error {
	w, id, err := loadWizard(c, h.Wizards)
	if err != nil {
		return fail(c, err)
	}
	if err := fn(c, w); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Wizards.Persist(id, w); err != nil {
		return fail(c, err)
	}
	return jsonOK(c, wizardView(w))
}
