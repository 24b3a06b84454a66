package repos

import (
	"tvicladmin/internal/domain"

	"github.com/jmoiron/sqlx"
)

type DraftRepo struct{ DB *sqlx.DB }

func NewDraftRepo(db *sqlx.DB) *DraftRepo { return &DraftRepo{DB: db} }

func (r *DraftRepo) ByID(id string) (*domain.DraftRecord, error) {
	var d domain.DraftRecord
	err := r.DB.Get(&d, `SELECT id,user_id,step,payload,created_at,COALESCE(updated_at,'') AS updated_at FROM drafts WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DraftRepo) ByUser(userID string) ([]domain.DraftRecord, error) {
	var ds []domain.DraftRecord
	err := r.DB.Select(&ds, `SELECT id,user_id,step,payload,created_at,COALESCE(updated_at,'') AS updated_at
                             FROM drafts WHERE user_id=? ORDER BY COALESCE(updated_at,created_at) DESC`, userID)
	return ds, err
}

func (r *DraftRepo) Create(d *domain.DraftRecord) error {
	_, err := r.DB.Exec(`INSERT INTO drafts(id,user_id,step,payload) VALUES(?,?,?,?)`,
		d.ID, d.UserID, d.Step, d.Payload)
	return err
}

func (r *DraftRepo) Save(id string, step int, payload string) error {
	_, err := r.DB.Exec(`UPDATE drafts SET step=?,payload=?,updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		step, payload, id)
	return err
}

func (r *DraftRepo) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM drafts WHERE id=?`, id)
	return err
}
