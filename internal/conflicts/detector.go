// Package conflicts finds duplicate and overlapping objects on a plan,
// auto-resolves the duplicates it safely can and records the rest on the
// involved objects. Detection works on an in-memory snapshot; persisting the
// touched records is the caller's job.
package conflicts

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"infra-object-service/internal/confidence"
	"infra-object-service/internal/geometry"
	"infra-object-service/internal/lifecycle"
	"infra-object-service/internal/models"
	"infra-object-service/internal/utils"
)

const (
	DefaultDuplicateTolerance = 10.0
	DefaultOverlapTolerance   = 5.0

	// AutoResolveThreshold is the confidence below which every similar
	// object must sit for a duplicate finding to be auto-resolvable.
	AutoResolveThreshold = 0.8

	// AutoRemovalReason is recorded on objects deactivated by auto-resolution.
	AutoRemovalReason = "auto-removed by duplication"
)

// Options selects the passes and tolerances of a run.
type Options struct {
	Types              []models.ConflictType
	DuplicateTolerance float64
	OverlapTolerance   float64
}

// DefaultOptions runs both passes with the default tolerances.
func DefaultOptions() Options {
	return Options{
		Types:              []models.ConflictType{models.ConflictDuplicate, models.ConflictOverlap},
		DuplicateTolerance: DefaultDuplicateTolerance,
		OverlapTolerance:   DefaultOverlapTolerance,
	}
}

func (o Options) wants(t models.ConflictType) bool {
	return len(o.Types) == 0 || slices.Contains(o.Types, t)
}

// Finding is one detected conflict. For duplicates ObjectIDs[0] is the
// anchor; for overlaps it holds exactly two ids.
type Finding struct {
	ID             string                 `json:"id"`
	Type           models.ConflictType    `json:"type"`
	ObjectIDs      []uuid.UUID            `json:"object_ids"`
	Severity       confidence.Criticality `json:"severity"`
	AutoResolvable bool                   `json:"auto_resolvable"`
	AutoResolved   bool                   `json:"auto_resolved"`
	SurvivorID     *uuid.UUID             `json:"survivor_id,omitempty"`
}

func (f Finding) involves(ids map[uuid.UUID]bool) bool {
	for _, id := range f.ObjectIDs {
		if ids[id] {
			return true
		}
	}
	return false
}

// Timings are the wall-clock durations of each phase of a run.
type Timings struct {
	Duplicates time.Duration `json:"duplicates"`
	Overlaps   time.Duration `json:"overlaps"`
	Resolution time.Duration `json:"resolution"`
	Recording  time.Duration `json:"recording"`
}

// Result is the outcome of a run.
type Result struct {
	Findings          []Finding   `json:"findings"`
	AutoResolvedCount int         `json:"auto_resolved_count"`
	ManualReviewCount int         `json:"manual_review_count"`
	Deactivated       []uuid.UUID `json:"deactivated"`
	Timings           Timings     `json:"timings"`
}

// Open returns the findings that still await manual review.
func (r *Result) Open() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.AutoResolved {
			out = append(out, f)
		}
	}
	return out
}

// Detector runs the duplicate and overlap passes.
type Detector struct {
	machine *lifecycle.Machine
	logger  *slog.Logger
}

func NewDetector(machine *lifecycle.Machine, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{machine: machine, logger: logger.With("module", "conflicts")}
}

// Detect runs the requested passes over objects. Input order matters: it is
// the anchor order of the duplicate pass and the tie-break of survivor
// selection.
func (d *Detector) Detect(objects []*models.ObjectRecord, opts Options) *Result {
	res := &Result{}

	if opts.wants(models.ConflictDuplicate) {
		start := time.Now()
		res.Findings = append(res.Findings, findDuplicates(objects, opts.DuplicateTolerance)...)
		res.Timings.Duplicates = time.Since(start)
	}
	if opts.wants(models.ConflictOverlap) {
		start := time.Now()
		res.Findings = append(res.Findings, findOverlaps(objects, opts.OverlapTolerance)...)
		res.Timings.Overlaps = time.Since(start)
	}

	d.logger.Debug("conflict detection finished",
		"objects", len(objects),
		"findings", len(res.Findings))
	return res
}

func severityOf(members []*models.ObjectRecord) confidence.Criticality {
	sev := confidence.CriticalityLow
	for _, m := range members {
		sev = confidence.Max(sev, m.Criticality)
	}
	return sev
}

func idsOf(members []*models.ObjectRecord) []uuid.UUID {
	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func findDuplicates(objects []*models.ObjectRecord, tolerance float64) []Finding {
	grid := utils.NewGrid(tolerance)
	for i, o := range objects {
		grid.Insert(i, o.Center)
	}

	processed := make([]bool, len(objects))
	var findings []Finding

	for i, anchor := range objects {
		if processed[i] {
			continue
		}
		var similar []*models.ObjectRecord
		for _, j := range grid.Candidates(anchor.Center, tolerance) {
			if j == i || processed[j] {
				continue
			}
			other := objects[j]
			if other.Category != anchor.Category || other.Type != anchor.Type {
				continue
			}
			if geometry.Distance(anchor.Center, other.Center) <= tolerance {
				similar = append(similar, other)
				processed[j] = true
			}
		}
		processed[i] = true
		if len(similar) == 0 {
			continue
		}

		// Only the similar objects are checked against the threshold; the
		// anchor's own confidence does not affect auto-resolvability.
		autoResolvable := true
		for _, s := range similar {
			if s.Confidence == nil || *s.Confidence >= AutoResolveThreshold {
				autoResolvable = false
				break
			}
		}

		members := append([]*models.ObjectRecord{anchor}, similar...)
		findings = append(findings, Finding{
			ID:             uuid.NewString(),
			Type:           models.ConflictDuplicate,
			ObjectIDs:      idsOf(members),
			Severity:       severityOf(members),
			AutoResolvable: autoResolvable,
		})
	}
	return findings
}

func findOverlaps(objects []*models.ObjectRecord, tolerance float64) []Finding {
	var findings []Finding
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			a, b := objects[i], objects[j]
			if !geometry.Intersects(a.BoundingBox, b.BoundingBox, tolerance) {
				continue
			}
			members := []*models.ObjectRecord{a, b}
			findings = append(findings, Finding{
				ID:        uuid.NewString(),
				Type:      models.ConflictOverlap,
				ObjectIDs: idsOf(members),
				Severity:  severityOf(members),
			})
		}
	}
	return findings
}

// ChooseSurvivor returns the index of the member with the highest effective
// confidence. Ties go to the earliest member.
func ChooseSurvivor(members []*models.ObjectRecord) int {
	best := 0
	for i := 1; i < len(members); i++ {
		if members[i].EffectiveConfidence() > members[best].EffectiveConfidence() {
			best = i
		}
	}
	return best
}

// AutoResolve keeps the survivor of every auto-resolvable finding and
// deactivates the other members. Findings that reference a deactivated
// object are dropped afterwards. It returns the deactivated records in
// deactivation order.
func (d *Detector) AutoResolve(res *Result, byID map[uuid.UUID]*models.ObjectRecord, actor string) []*models.ObjectRecord {
	start := time.Now()
	defer func() { res.Timings.Resolution = time.Since(start) }()

	var deactivated []*models.ObjectRecord
	gone := map[uuid.UUID]bool{}

	for i := range res.Findings {
		f := &res.Findings[i]
		if !f.AutoResolvable {
			continue
		}
		members := make([]*models.ObjectRecord, 0, len(f.ObjectIDs))
		for _, id := range f.ObjectIDs {
			if o, ok := byID[id]; ok && o.IsActive {
				members = append(members, o)
			}
		}
		if len(members) < 2 {
			continue
		}

		survivor := members[ChooseSurvivor(members)]
		for _, m := range members {
			if m == survivor {
				continue
			}
			if err := m.Deactivate(actor, AutoRemovalReason, true); err != nil {
				d.logger.Warn("auto-resolution skipped object", "object_id", m.ID.String(), "error", err)
				continue
			}
			gone[m.ID] = true
			deactivated = append(deactivated, m)
			res.Deactivated = append(res.Deactivated, m.ID)
		}
		id := survivor.ID
		f.SurvivorID = &id
		f.AutoResolved = true
		res.AutoResolvedCount++
	}

	kept := res.Findings[:0]
	for _, f := range res.Findings {
		if !f.AutoResolved && f.involves(gone) {
			continue
		}
		kept = append(kept, f)
	}
	res.Findings = kept
	return deactivated
}

// Record appends every open finding to each involved object and moves it to
// CONFLICTED. An identical unresolved conflict already on an object is not
// recorded again. The touched records are returned in input order.
func (d *Detector) Record(res *Result, objects []*models.ObjectRecord, actor string) ([]*models.ObjectRecord, error) {
	start := time.Now()
	defer func() { res.Timings.Recording = time.Since(start) }()

	byID := make(map[uuid.UUID]*models.ObjectRecord, len(objects))
	for _, o := range objects {
		byID[o.ID] = o
	}

	touched := map[uuid.UUID]bool{}
	now := time.Now().UTC()

	for _, f := range res.Open() {
		res.ManualReviewCount++
		for _, id := range f.ObjectIDs {
			o, ok := byID[id]
			if !ok {
				continue
			}
			others := make([]string, 0, len(f.ObjectIDs)-1)
			for _, other := range f.ObjectIDs {
				if other != id {
					others = append(others, other.String())
				}
			}
			added := o.AddConflict(models.Conflict{
				ID:             f.ID,
				Type:           f.Type,
				ObjectIDs:      others,
				Severity:       f.Severity,
				AutoResolvable: f.AutoResolvable,
				DetectedAt:     now,
			})
			if !added {
				continue
			}
			next, err := d.machine.Next(o.Status, lifecycle.EventConflictDetected, o.ManuallyValidated)
			if err != nil {
				return nil, err
			}
			o.SetStatus(next, actor, string(lifecycle.EventConflictDetected)+": "+string(f.Type), true)
			touched[id] = true
		}
	}

	var out []*models.ObjectRecord
	for _, o := range objects {
		if touched[o.ID] {
			out = append(out, o)
		}
	}
	return out, nil
}
