// Package types defines the shared data structures for the wardround engine.
// This package contains type definitions and variant markers only, no logic.
package types

// Vital names one channel of a patient's monitored vital signs.
type Vital string

const (
	VitalHeartRate   Vital = "heart_rate"
	VitalSystolic    Vital = "systolic"
	VitalDiastolic   Vital = "diastolic"
	VitalSpO2        Vital = "spo2"
	VitalTemperature Vital = "temperature"
	VitalRespRate    Vital = "resp_rate"
	VitalPain        Vital = "pain"
	VitalEtCO2       Vital = "etco2" // optional channel
)

// Vitals maps each monitored channel to its current reading. No bounds are
// enforced; consumers interpret ranges.
type Vitals map[Vital]float64

// DefaultDimension is the relationship dimension used when an effect names none.
const DefaultDimension = "overall"

// LogEntry is one history line stamped with the in-game minute it was written.
type LogEntry struct {
	Minute int    `json:"minute"`
	Text   string `json:"text"`
}

// PatientState is the mutable simulation state for one patient session.
type PatientState struct {
	Vitals        Vitals                    `json:"vitals"`
	Flags         []string                  `json:"flags"`     // set semantics, insertion ordered
	Inventory     []string                  `json:"inventory"` // multiset via repeats
	History       []LogEntry                `json:"history"`   // append-only
	Stress        float64                   `json:"stress"`
	TimeElapsed   int                       `json:"time_elapsed"` // minutes, never decreases
	Relationships map[string]map[string]int `json:"relationships"` // npc → dimension → affinity
}

// ChoiceCategory informs presentation styling only.
type ChoiceCategory string

const (
	CategoryDiagnostic  ChoiceCategory = "diagnostic"
	CategoryDialogue    ChoiceCategory = "dialogue"
	CategoryExamination ChoiceCategory = "examination"
	CategoryProcedure   ChoiceCategory = "procedure"
)

// Requirement is a typed predicate gating a choice. Implemented by
// FlagRequirement, ItemRequirement, SkillRequirement and VitalRequirement.
type Requirement interface {
	requirement()
}

// FlagRequirement holds when the flag is present.
type FlagRequirement struct {
	Flag string
}

// ItemRequirement holds when at least one copy of the item is carried.
type ItemRequirement struct {
	Item string
}

// SkillRequirement is reserved for skill checks; it is not enforced.
type SkillRequirement struct {
	Skill    string
	Operator string
	Value    float64
}

// VitalRequirement is reserved for numeric vital checks; it is not enforced.
type VitalRequirement struct {
	Vital    Vital
	Operator string
	Value    float64
}

func (FlagRequirement) requirement()  {}
func (ItemRequirement) requirement()  {}
func (SkillRequirement) requirement() {}
func (VitalRequirement) requirement() {}

// Effect is a single typed state mutation. Every effect carries an optional
// free-text description that is always appended to history.
type Effect interface {
	Describe() string
	effect()
}

// Note carries the free-text description shared by every effect kind. Used
// on its own it is a narration-only effect.
type Note struct {
	Description string
}

// Describe returns the effect's free-text description.
func (n Note) Describe() string { return n.Description }

func (Note) effect() {}

// AddFlag records a narrative fact. Idempotent.
type AddFlag struct {
	Note
	Flag string
}

// RemoveFlag clears a narrative fact.
type RemoveFlag struct {
	Note
	Flag string
}

// AddItem appends one copy of an item to the inventory.
type AddItem struct {
	Note
	Item string
}

// RemoveItem removes one copy of an item from the inventory.
type RemoveItem struct {
	Note
	Item string
}

// SetVital overwrites a vital channel with an absolute value.
type SetVital struct {
	Note
	Vital Vital
	Value float64
}

// AdjustRelationship adds a signed delta to an NPC affinity dimension.
// An empty Target means DefaultDimension.
type AdjustRelationship struct {
	Note
	NPC    string
	Target string
	Delta  int
}

// AdjustStress adds a signed delta to the stress scalar.
type AdjustStress struct {
	Note
	Delta float64
}

// AdvanceTime moves the in-game clock forward.
type AdvanceTime struct {
	Note
	Minutes int
}

// GameOver marks a losing outcome. Informational only.
type GameOver struct {
	Note
}

// Win marks a winning outcome. Informational only.
type Win struct {
	Note
}

// CraftItem announces a crafting attempt. It is log-only: ingredients are not
// checked or consumed, and no item is granted.
type CraftItem struct {
	Note
	Recipe string
}

// Choice is one option offered by a narrative node.
type Choice struct {
	ID           string
	Text         string
	Category     ChoiceCategory
	Requirements []Requirement
	Effects      []Effect
	NextNodeID   string // empty: stay on the current node
	TimeCost     int    // minutes
}

// NarrativeNode is one state of a case's narrative graph.
type NarrativeNode struct {
	ID         string
	Text       string
	Choices    []Choice // presentation order
	OnEnter    []Effect
	IsTerminal bool
}

// Difficulty is a case's authored difficulty tier.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "Easy"
	DifficultyMedium    Difficulty = "Medium"
	DifficultyHard      Difficulty = "Hard"
	DifficultyLegendary Difficulty = "Legendary"
)

// PatientCase is the authored, load-time-immutable case container.
type PatientCase struct {
	ID           string
	Title        string
	Description  string
	Difficulty   Difficulty
	InitialState PatientState
	Nodes        map[string]NarrativeNode
	StartNodeID  string
}

// Recipe combines ingredient items into a result item.
type Recipe struct {
	ID          string   `yaml:"id"`
	Ingredients []string `yaml:"ingredients"`
	Result      string   `yaml:"result"`
	Description string   `yaml:"description"`
}

// Library is everything loaded from a content directory.
type Library struct {
	Cases    map[string]*PatientCase
	Order    []string // case IDs in load order
	Recipes  []Recipe
	Warnings []string // non-fatal validation findings
}

// ResultCode classifies a failed operation.
type ResultCode string

const (
	CodeOK                 ResultCode = ""
	CodeNoCurrentNode      ResultCode = "no_current_node"
	CodeNotFound           ResultCode = "not_found"
	CodeRequirementNotMet  ResultCode = "requirement_not_met"
	CodeUnknownRecipe      ResultCode = "unknown_recipe"
	CodeMissingIngredients ResultCode = "missing_ingredients"
)

// Event is emitted while effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Event types.
const (
	EventFlagAdded           = "flag_added"
	EventFlagRemoved         = "flag_removed"
	EventItemAdded           = "item_added"
	EventItemRemoved         = "item_removed"
	EventVitalSet            = "vital_set"
	EventRelationshipChanged = "relationship_changed"
	EventStressChanged       = "stress_changed"
	EventTimeAdvanced        = "time_advanced"
	EventGameOver            = "game_over"
	EventWin                 = "win"
	EventCraftAttempted      = "craft_attempted"
	EventItemCrafted         = "item_crafted"
	EventNodeEntered         = "node_entered"
)

// Result is the output of a single engine operation.
type Result struct {
	Success bool
	Message string
	Code    ResultCode
	Events  []Event
}

// Intent is a parsed console command.
type Intent struct {
	Verb string
	Args []string
}

// TriageLevel is the START triage category assigned by the player.
type TriageLevel string

const (
	TriageBlack  TriageLevel = "BLACK"
	TriageRed    TriageLevel = "RED"
	TriageYellow TriageLevel = "YELLOW"
	TriageGreen  TriageLevel = "GREEN"
)

// PatientStatus is an incident patient's lifecycle state.
type PatientStatus string

const (
	StatusWaiting     PatientStatus = "WAITING"
	StatusStabilizing PatientStatus = "STABILIZING"
	StatusCritical    PatientStatus = "CRITICAL"
	StatusStable      PatientStatus = "STABLE"
	StatusDeceased    PatientStatus = "DECEASED"
	StatusDischarged  PatientStatus = "DISCHARGED"
)

// Resource names one countable pool in MCIResources.
type Resource string

const (
	ResourceBeds        Resource = "beds"
	ResourceNurses      Resource = "nurses"
	ResourceResidents   Resource = "residents"
	ResourceAttendings  Resource = "attendings"
	ResourceBlood       Resource = "blood"
	ResourceVentilators Resource = "ventilators"
	ResourceORSlots     Resource = "or_slots"
)

// MCIResources is the shared staff and equipment pool of an incident.
type MCIResources struct {
	Beds        int `json:"beds" env:"BEDS" envDefault:"4"`
	Nurses      int `json:"nurses" env:"NURSES" envDefault:"4"`
	Residents   int `json:"residents" env:"RESIDENTS" envDefault:"2"`
	Attendings  int `json:"attendings" env:"ATTENDINGS" envDefault:"1"`
	BloodUnits  int `json:"blood_units" env:"BLOOD" envDefault:"6"`
	Ventilators int `json:"ventilators" env:"VENTILATORS" envDefault:"2"`
	ORSlots     int `json:"or_slots" env:"OR_SLOTS" envDefault:"1"`
}

// MCIPatient wraps one case for multi-patient incident tracking.
type MCIPatient struct {
	ID             string        `json:"id"`
	Case           *PatientCase  `json:"-"`
	Triage         TriageLevel   `json:"triage"`
	AssignedTo     string        `json:"assigned_to,omitempty"` // staff id; empty while unassigned
	Resources      []Resource    `json:"resources,omitempty"`   // every unit committed, in order
	Status         PatientStatus `json:"status"`
	TimeToCritical int           `json:"time_to_critical"` // seconds
	Vitals         Vitals        `json:"vitals"`
}

// MCIState is the aggregate state of a mass-casualty incident.
type MCIState struct {
	Active         bool         `json:"active"`
	Patients       []MCIPatient `json:"patients"`
	Resources      MCIResources `json:"resources"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	Score          int          `json:"score"`       // not scored yet
	LivesSaved     int          `json:"lives_saved"` // needs discharge, which is not modelled
	LivesLost      int          `json:"lives_lost"`
}
