package absence

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/rollcall"
)

var (
	// errors
	ErrNotFound = errors.New("absence record not found")
)

type (
	Repository interface {
		CreateAbsence(ab Absence) (Absence, error)
		QueryAllAbsences() ([]Absence, error)
		GetAbsenceByID(id string) (Absence, error)
		// FindAbsence looks up the ledger entry for the compound key
		// (rollcallID, username); ErrNotFound when absent.
		FindAbsence(rollcallID, username string) (Absence, error)
		UpdateAbsence(ab Absence) (Absence, error)
	}

	Service struct {
		repo      Repository
		rollcalls rollcall.Repository
	}
)

func NewService(repo Repository, rollcalls rollcall.Repository) *Service {
	return &Service{repo: repo, rollcalls: rollcalls}
}

// WeekRange returns the default reporting window: the current calendar week
// in local time, Sunday inclusive to next Sunday exclusive.
func WeekRange(now time.Time) (start, end string) {
	sunday := now.AddDate(0, 0, -int(now.Weekday()))
	return sunday.Format("2006-01-02"), sunday.AddDate(0, 0, 7).Format("2006-01-02")
}

// PendingItems computes the items needing attention in [start, end): every
// roll-call entry whose status requires adjudication, paired with its
// existing ledger record when one matches (RollcallID, Username).
func (svc *Service) PendingItems(actor access.Actor, start, end string) ([]Item, error) {
	if !access.Can(actor, access.ResourceAbsence, access.OpRead) {
		return nil, access.ErrForbidden
	}

	records, err := svc.rollcalls.QueryAllRollCalls()
	if err != nil {
		return nil, errors.Wrap(err, "querying roll-calls")
	}
	absences, err := svc.repo.QueryAllAbsences()
	if err != nil {
		return nil, errors.Wrap(err, "querying absences")
	}

	byKey := make(map[string]*Absence, len(absences))
	for i := range absences {
		ab := absences[i]
		byKey[ab.RollcallID+"\x00"+ab.Username] = &ab
	}

	items := make([]Item, 0)
	for _, rec := range records {
		if rec.Date < start || rec.Date >= end {
			continue
		}
		for uname, st := range rec.Status {
			if !st.NeedsReview() {
				continue
			}
			items = append(items, Item{
				Username:   uname,
				Date:       rec.Date,
				Time:       rec.Time,
				Status:     st,
				RollcallID: rec.ID,
				Absence:    byKey[rec.ID+"\x00"+uname],
			})
		}
	}
	return items, nil
}

func (svc *Service) QueryAll(actor access.Actor) ([]Absence, error) {
	if !access.Can(actor, access.ResourceAbsence, access.OpRead) {
		return nil, access.ErrForbidden
	}
	return svc.repo.QueryAllAbsences()
}

// Save upserts a ledger entry keyed on (RollcallID, Username): the matching
// record is amended when one exists, else a new one is created.
func (svc *Service) Save(actor access.Actor, sa SaveAbsence) (Absence, error) {
	if !access.Can(actor, access.ResourceAbsence, access.OpCreate) {
		return Absence{}, access.ErrForbidden
	}
	if err := sa.Validate(); err != nil {
		return Absence{}, err
	}

	ab, err := svc.repo.FindAbsence(sa.RollcallID, sa.Username)
	switch errors.Cause(err) {
	case nil:
		ab.Date = sa.Date
		ab.Time = sa.Time
		ab.Status = sa.Status
		ab.Reason = sa.Reason
		ab.Excused = sa.Excused
		return svc.repo.UpdateAbsence(ab)
	case ErrNotFound:
		return svc.repo.CreateAbsence(Absence{
			ID:         uuid.New().String(),
			Username:   sa.Username,
			Date:       sa.Date,
			Time:       sa.Time,
			Status:     sa.Status,
			RollcallID: sa.RollcallID,
			Reason:     sa.Reason,
			Excused:    sa.Excused,
		})
	default:
		return Absence{}, err
	}
}

// Update amends an existing ledger entry by id (reason and excused flag).
func (svc *Service) Update(actor access.Actor, id string, sa SaveAbsence) (Absence, error) {
	if !access.Can(actor, access.ResourceAbsence, access.OpUpdate) {
		return Absence{}, access.ErrForbidden
	}
	if err := sa.Validate(); err != nil {
		return Absence{}, err
	}
	ab, err := svc.repo.GetAbsenceByID(id)
	if err != nil {
		return Absence{}, err
	}
	ab.Reason = sa.Reason
	ab.Excused = sa.Excused
	ab.Status = sa.Status
	return svc.repo.UpdateAbsence(ab)
}
