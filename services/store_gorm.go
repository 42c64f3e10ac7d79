package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"subsidy-crm-api/models"
)

// GormStore is the MySQL-backed Store. Per-case serialization and counter
// linearization are enforced at the storage boundary with transactions and
// row-level locks rather than in application code.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// caseSequence backs the serialized per-year case-number counter.
type caseSequence struct {
	Year      int `gorm:"primaryKey;column:year"`
	LastValue int `gorm:"column:last_value"`
}

func (caseSequence) TableName() string { return "case_sequences" }

func notFoundOr(err error, wrapped *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrapped
	}
	return err
}

func (s *GormStore) AllocateCaseNumber(year int) (string, error) {
	var number string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var seq caseSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = caseSequence{Year: year}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
			// Re-read under lock so two bootstrap inserts serialize on the row.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("year = ?", year).
				First(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		seq.LastValue++
		if err := tx.Model(&caseSequence{}).
			Where("year = ?", year).
			Update("last_value", seq.LastValue).Error; err != nil {
			return err
		}
		number = FormatCaseNumber(year, seq.LastValue)
		return nil
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// applySideEffects writes queued append-only records inside tx.
func applySideEffects(tx *gorm.DB, fx *SideEffects) error {
	if fx == nil {
		return nil
	}
	for _, e := range fx.History {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
	}
	for _, e := range fx.Timeline {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
	}
	for _, n := range fx.Notifications {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *GormStore) CreateCase(c *models.Case, fx *SideEffects) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Case{}).
			Where("lead_id = ?", c.LeadID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict("lead %s already has a case", c.LeadID)
		}

		if err := tx.Create(c).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Lead{}).
			Where("lead_id = ?", c.LeadID).
			Updates(map[string]interface{}{
				"converted_to_case_id": c.CaseID,
				"status":               models.LeadStatusConverted,
				"updated_at":           time.Now(),
			}).Error; err != nil {
			return err
		}

		return applySideEffects(tx, fx)
	})
}

func (s *GormStore) GetCase(caseID string) (*models.Case, error) {
	var c models.Case
	if err := s.db.Where("case_id = ?", caseID).First(&c).Error; err != nil {
		return nil, notFoundOr(err, ErrNotFound("case %s not found", caseID))
	}
	return &c, nil
}

func (s *GormStore) GetCaseByLeadID(leadID string) (*models.Case, error) {
	var c models.Case
	if err := s.db.Where("lead_id = ?", leadID).First(&c).Error; err != nil {
		return nil, notFoundOr(err, ErrNotFound("no case for lead %s", leadID))
	}
	return &c, nil
}

func (s *GormStore) ListCases() ([]models.Case, error) {
	var cases []models.Case
	if err := s.db.Order("created_at ASC").Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *GormStore) WithCase(caseID string, fn func(c *models.Case, fx *SideEffects) error) (*models.Case, error) {
	var result *models.Case
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var c models.Case
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("case_id = ?", caseID).
			First(&c).Error; err != nil {
			return notFoundOr(err, ErrNotFound("case %s not found", caseID))
		}

		fx := &SideEffects{}
		if err := fn(&c, fx); err != nil {
			return err
		}

		c.UpdatedAt = time.Now()
		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		if err := applySideEffects(tx, fx); err != nil {
			return err
		}
		result = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *GormStore) DeleteCase(caseID string) error {
	res := s.db.Where("case_id = ?", caseID).Delete(&models.Case{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound("case %s not found", caseID)
	}
	return nil
}

func (s *GormStore) GetLead(leadID string) (*models.Lead, error) {
	var l models.Lead
	if err := s.db.Where("lead_id = ?", leadID).First(&l).Error; err != nil {
		return nil, notFoundOr(err, ErrNotFound("lead %s not found", leadID))
	}
	return &l, nil
}

func (s *GormStore) GetUser(userID string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, notFoundOr(err, ErrNotFound("user %s not found", userID))
	}
	return &u, nil
}

func (s *GormStore) CreateDocument(d *models.CaseDocument, fx *SideEffects) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Case{}).
			Where("case_id = ?", d.CaseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound("case %s not found", d.CaseID)
		}
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		return applySideEffects(tx, fx)
	})
}

func (s *GormStore) GetDocument(documentID string) (*models.CaseDocument, error) {
	var d models.CaseDocument
	if err := s.db.Where("document_id = ?", documentID).First(&d).Error; err != nil {
		return nil, notFoundOr(err, ErrNotFound("document %s not found", documentID))
	}
	return &d, nil
}

func (s *GormStore) ListDocumentsByCase(caseID string) ([]models.CaseDocument, error) {
	var docs []models.CaseDocument
	if err := s.db.Where("case_id = ?", caseID).
		Order("uploaded_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *GormStore) WithDocument(documentID string, fn func(d *models.CaseDocument, fx *SideEffects) error) (*models.CaseDocument, error) {
	var result *models.CaseDocument
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var d models.CaseDocument
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("document_id = ?", documentID).
			First(&d).Error; err != nil {
			return notFoundOr(err, ErrNotFound("document %s not found", documentID))
		}

		fx := &SideEffects{}
		if err := fn(&d, fx); err != nil {
			return err
		}

		if err := tx.Save(&d).Error; err != nil {
			return err
		}
		if err := applySideEffects(tx, fx); err != nil {
			return err
		}
		result = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *GormStore) ListAssignmentHistory(caseID string) ([]models.CaseAssignmentHistoryEntry, error) {
	var entries []models.CaseAssignmentHistoryEntry
	if err := s.db.Where("case_id = ?", caseID).
		Order("assigned_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) AppendTimeline(e *models.CaseTimelineEntry) error {
	return s.db.Create(e).Error
}

func (s *GormStore) ListTimeline(caseID string) ([]models.CaseTimelineEntry, error) {
	var entries []models.CaseTimelineEntry
	if err := s.db.Where("case_id = ?", caseID).
		Order("performed_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) CreateTask(t *models.CaseTask, fx *SideEffects) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Case{}).
			Where("case_id = ?", t.CaseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound("case %s not found", t.CaseID)
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return applySideEffects(tx, fx)
	})
}

func (s *GormStore) GetTask(taskID string) (*models.CaseTask, error) {
	var t models.CaseTask
	if err := s.db.Where("task_id = ?", taskID).First(&t).Error; err != nil {
		return nil, notFoundOr(err, ErrNotFound("task %s not found", taskID))
	}
	return &t, nil
}

func (s *GormStore) ListTasksByCase(caseID string) ([]models.CaseTask, error) {
	var tasks []models.CaseTask
	if err := s.db.Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) WithTask(taskID string, fn func(t *models.CaseTask, fx *SideEffects) error) (*models.CaseTask, error) {
	var result *models.CaseTask
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var t models.CaseTask
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("task_id = ?", taskID).
			First(&t).Error; err != nil {
			return notFoundOr(err, ErrNotFound("task %s not found", taskID))
		}

		fx := &SideEffects{}
		if err := fn(&t, fx); err != nil {
			return err
		}

		if err := tx.Save(&t).Error; err != nil {
			return err
		}
		if err := applySideEffects(tx, fx); err != nil {
			return err
		}
		result = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *GormStore) ListNotifications(userID string) ([]models.Notification, error) {
	var items []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) MarkNotificationRead(notificationID, userID string) error {
	res := s.db.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound("notification %s not found", notificationID)
	}
	return nil
}
