// Package mci simulates a mass-casualty incident: a shared clock driving
// independent patient deterioration countdowns, arbitrated against one
// shared resource pool.
package mci

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

const (
	// CriticalGrace is how many seconds past zero a critical patient survives.
	CriticalGrace = 60

	shockHeartRate = 20
	shockSpO2      = -5
)

// Countdown returns the seconds-to-critical seed for a case difficulty.
func Countdown(d types.Difficulty) int {
	switch d {
	case types.DifficultyLegendary:
		return 60
	case types.DifficultyHard:
		return 120
	case types.DifficultyMedium:
		return 300
	default:
		return 600
	}
}

// Manager owns the aggregate incident state. It is not safe for concurrent
// use; a single driver calls Tick on a fixed interval.
type Manager struct {
	start types.MCIResources
	state types.MCIState
	log   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for status transitions.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates an inactive manager with the given starting resource pool.
func New(res types.MCIResources, opts ...Option) *Manager {
	m := &Manager{
		start: res,
		state: types.MCIState{Resources: res, Patients: []types.MCIPatient{}},
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartIncident resets the incident and activates it with one patient per
// case, in roster order. Every patient starts WAITING and triaged YELLOW.
func (m *Manager) StartIncident(cases []*types.PatientCase) {
	patients := make([]types.MCIPatient, 0, len(cases))
	for _, c := range cases {
		if c == nil {
			continue
		}
		patients = append(patients, types.MCIPatient{
			ID:             c.ID,
			Case:           c,
			Triage:         types.TriageYellow,
			Status:         types.StatusWaiting,
			TimeToCritical: Countdown(c.Difficulty),
			Vitals:         state.CloneVitals(c.InitialState.Vitals),
		})
	}
	m.state = types.MCIState{
		Active:    true,
		Patients:  patients,
		Resources: m.start,
	}
	m.log.Debug("incident started", "patients", len(patients))
}

// Tick advances the incident clock by seconds and deteriorates every
// patient not in a terminal status. No-op while inactive.
func (m *Manager) Tick(seconds int) {
	if !m.state.Active || seconds <= 0 {
		return
	}
	m.state.ElapsedSeconds += seconds

	for i := range m.state.Patients {
		p := &m.state.Patients[i]
		switch p.Status {
		case types.StatusDeceased, types.StatusDischarged, types.StatusStable:
			continue
		}

		prev := p.TimeToCritical
		p.TimeToCritical -= seconds

		// Crossing zero is the only way in; the shock lands once.
		if prev > 0 && p.TimeToCritical <= 0 && p.Status != types.StatusCritical {
			p.Status = types.StatusCritical
			if p.Vitals == nil {
				p.Vitals = types.Vitals{}
			}
			p.Vitals[types.VitalHeartRate] += shockHeartRate
			p.Vitals[types.VitalSpO2] += shockSpO2
			m.log.Debug("patient critical", "patient", p.ID, "elapsed", m.state.ElapsedSeconds)
		}

		// A bed anywhere before the deadline keeps a critical patient alive.
		if p.Status == types.StatusCritical && p.TimeToCritical < -CriticalGrace && !hasResource(*p, types.ResourceBeds) {
			p.Status = types.StatusDeceased
			m.state.LivesLost++
			m.log.Debug("patient deceased", "patient", p.ID, "elapsed", m.state.ElapsedSeconds)
		}
	}
}

// AssignTriage overwrites a patient's triage level. There is no clinical
// validation. Returns false for an out-of-range index.
func (m *Manager) AssignTriage(index int, level types.TriageLevel) bool {
	if !m.valid(index) {
		return false
	}
	m.state.Patients[index].Triage = level
	return true
}

// AssignResource takes one unit from a pool for a patient. A bed moves the
// patient to STABILIZING. Returns false, changing nothing, if the index is
// invalid, the resource is unknown, the pool is empty, or the patient has
// already died, left or been stabilized.
func (m *Manager) AssignResource(index int, r types.Resource) bool {
	if !m.valid(index) {
		return false
	}
	p := &m.state.Patients[index]
	switch p.Status {
	case types.StatusDeceased, types.StatusDischarged, types.StatusStable:
		return false
	}

	pool := m.pool(r)
	if pool == nil {
		m.log.Debug("unknown resource", "resource", r)
		return false
	}
	if *pool <= 0 {
		m.log.Debug("resource exhausted", "resource", r, "patient", p.ID)
		return false
	}
	*pool--

	p.Resources = append(p.Resources, r)
	if r == types.ResourceBeds {
		p.Status = types.StatusStabilizing
		m.log.Debug("patient stabilizing", "patient", p.ID, "elapsed", m.state.ElapsedSeconds)
	}
	return true
}

// State returns a shallow copy of the aggregate state. The Patients slice
// is shared with the manager.
func (m *Manager) State() types.MCIState {
	return m.state
}

// Snapshot returns a deep copy of the aggregate state.
func (m *Manager) Snapshot() types.MCIState {
	s := m.state
	s.Patients = make([]types.MCIPatient, len(m.state.Patients))
	for i, p := range m.state.Patients {
		p.Vitals = state.CloneVitals(p.Vitals)
		p.Resources = slices.Clone(p.Resources)
		s.Patients[i] = p
	}
	return s
}

// Done reports whether every patient has reached a terminal status.
func (m *Manager) Done() bool {
	if !m.state.Active {
		return false
	}
	for _, p := range m.state.Patients {
		switch p.Status {
		case types.StatusDeceased, types.StatusDischarged, types.StatusStable:
		default:
			return false
		}
	}
	return true
}

// ParseResource maps a resource name or alias to a Resource.
func ParseResource(name string) (types.Resource, error) {
	switch strings.ToLower(name) {
	case "bed", "beds":
		return types.ResourceBeds, nil
	case "nurse", "nurses":
		return types.ResourceNurses, nil
	case "resident", "residents":
		return types.ResourceResidents, nil
	case "attending", "attendings":
		return types.ResourceAttendings, nil
	case "blood", "blood_units", "prbc":
		return types.ResourceBlood, nil
	case "vent", "vents", "ventilator", "ventilators":
		return types.ResourceVentilators, nil
	case "or", "or_slot", "or_slots":
		return types.ResourceORSlots, nil
	}
	return "", fmt.Errorf("unknown resource %q", name)
}

// ParseTriage maps a triage colour to a TriageLevel.
func ParseTriage(name string) (types.TriageLevel, error) {
	switch strings.ToLower(name) {
	case "black", "b":
		return types.TriageBlack, nil
	case "red", "r":
		return types.TriageRed, nil
	case "yellow", "y":
		return types.TriageYellow, nil
	case "green", "g":
		return types.TriageGreen, nil
	}
	return "", fmt.Errorf("unknown triage level %q", name)
}

// hasResource reports whether r is among the patient's assigned resources.
func hasResource(p types.MCIPatient, r types.Resource) bool {
	return slices.Contains(p.Resources, r)
}

func (m *Manager) valid(index int) bool {
	return index >= 0 && index < len(m.state.Patients)
}

func (m *Manager) pool(r types.Resource) *int {
	res := &m.state.Resources
	switch r {
	case types.ResourceBeds:
		return &res.Beds
	case types.ResourceNurses:
		return &res.Nurses
	case types.ResourceResidents:
		return &res.Residents
	case types.ResourceAttendings:
		return &res.Attendings
	case types.ResourceBlood:
		return &res.BloodUnits
	case types.ResourceVentilators:
		return &res.Ventilators
	case types.ResourceORSlots:
		return &res.ORSlots
	}
	return nil
}
