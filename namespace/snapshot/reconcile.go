package snapshot

import (
	"fmt"
	"path/filepath"

	"github.com/0glabs/0g-namespace/namespace"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Action is the repair applied to one entity's physical backing.
type Action string

const (
	ActionMkdir    Action = "mkdir"
	ActionMove     Action = "move"
	ActionRecreate Action = "recreate"
	ActionDrift    Action = "drift"
)

// Repair describes one repaired, or unrepairable, entity.
type Repair struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

func (r Repair) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%v %v failed: %v", r.Action, r.Path, r.Err)
	}

	if len(r.Detail) == 0 {
		return fmt.Sprintf("%v %v", r.Action, r.Path)
	}

	return fmt.Sprintf("%v %v (%v)", r.Action, r.Path, r.Detail)
}

// Report collects the outcome of a reconciliation pass.
type Report struct {
	Checked int
	Repairs []Repair
}

// Failed returns the repairs that could not be applied.
func (r *Report) Failed() []Repair {
	var failed []Repair
	for _, repair := range r.Repairs {
		if repair.Err != nil {
			failed = append(failed, repair)
		}
	}
	return failed
}

// Reconcile makes the physical mirror match the logical tree. Folders get
// their derived directory; files whose derived path is missing are moved from
// the path stored at save time, or recreated empty when that is gone too. A
// failure on one entity is recorded and the pass continues with the rest.
func Reconcile(tree *namespace.Tree, records map[namespace.ID]*Node) *Report {
	var entities []*namespace.Entity
	tree.Walk(nil, func(e *namespace.Entity, _ int) error {
		entities = append(entities, e)
		return nil
	})

	mirror := tree.Mirror()
	logger := tree.Logger()
	report := &Report{}

	for _, e := range entities {
		report.Checked++

		physical := tree.PhysicalPath(e)
		logical := tree.PathOf(e)

		var repair *Repair
		if e.IsFolder() {
			repair = reconcileFolder(mirror, logical, physical)
		} else {
			repair = reconcileFile(mirror, logical, physical, records[e.ID()])
		}

		if repair == nil {
			continue
		}

		entry := logger.WithFields(logrus.Fields{
			"path":     logical,
			"physical": physical,
			"action":   repair.Action,
		})
		if repair.Err != nil {
			entry.WithError(repair.Err).Warn("Failed to repair physical backing")
		} else {
			entry.Info("Repaired physical backing")
		}

		report.Repairs = append(report.Repairs, *repair)
	}

	return report
}

func reconcileFolder(mirror *namespace.Mirror, logical, physical string) *Repair {
	exists, isDir := mirror.Exists(physical)
	if exists && isDir {
		return nil
	}

	repair := &Repair{Path: logical, Action: ActionMkdir}
	if exists {
		repair.Err = errors.Errorf("%s is occupied by a file", physical)
		return repair
	}

	if err := mirror.Mkdir(physical); err != nil {
		repair.Err = errors.WithMessage(err, "failed to create directory")
	}

	return repair
}

func reconcileFile(mirror *namespace.Mirror, logical, physical string, record *Node) *Repair {
	exists, isDir := mirror.Exists(physical)
	if isDir {
		return &Repair{
			Path:   logical,
			Action: ActionRecreate,
			Err:    errors.Errorf("%s is occupied by a directory", physical),
		}
	}

	if exists {
		return checkDrift(mirror, logical, physical, record)
	}

	if record != nil && len(record.Path) > 0 {
		stored := filepath.FromSlash(record.Path)
		if stored != physical {
			if found, dir := mirror.Exists(stored); found && !dir {
				repair := &Repair{Path: logical, Action: ActionMove, Detail: "from " + record.Path}
				if err := mirror.Rename(stored, physical); err != nil {
					repair.Err = errors.WithMessage(err, "failed to move file")
				}
				return repair
			}
		}
	}

	repair := &Repair{Path: logical, Action: ActionRecreate}
	if err := mirror.WriteFile(physical, nil); err != nil {
		repair.Err = errors.WithMessage(err, "failed to create file")
	}

	return repair
}

func checkDrift(mirror *namespace.Mirror, logical, physical string, record *Node) *Repair {
	if record == nil || len(record.Hash) == 0 {
		return nil
	}

	data, err := mirror.ReadFile(physical)
	if err != nil {
		return &Repair{Path: logical, Action: ActionDrift, Err: errors.WithMessage(err, "failed to read file")}
	}

	if hash := ContentHash(data); hash != record.Hash {
		return &Repair{
			Path:   logical,
			Action: ActionDrift,
			Detail: fmt.Sprintf("content changed since save, %d bytes now, %d saved", len(data), record.Size),
		}
	}

	return nil
}
