package dues

import (
	"strings"
	"time"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"github.com/asociacion/backend/internal/domain/shared"
	"github.com/asociacion/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WizardStep identifies a state of the bulk registration wizard
type WizardStep string

const (
	StepDefiningEvent     WizardStep = "defining_event"
	StepSelectingMembers  WizardStep = "selecting_members"
	StepConfirmingSummary WizardStep = "confirming_summary"
	StepPersisting        WizardStep = "persisting"
	StepDone              WizardStep = "done"
	StepCancelled         WizardStep = "cancelled"
)

// EventDefinition carries the fields collected in the first wizard step
type EventDefinition struct {
	Concept     string             `json:"concepto"`
	Type        dues.DueType       `json:"tipo"`
	Period      valueobject.Period `json:"periodo"`
	BaseAmount  decimal.Decimal    `json:"monto_base"`
	DefaultDate time.Time          `json:"fecha_defecto"`
	CreatedBy   string             `json:"creado_por"`
}

// FieldErrors maps field names to validation messages. It is returned by
// DefineEvent so callers can surface errors inline next to each field.
type FieldErrors map[string]string

// Error implements the error interface
func (e FieldErrors) Error() string {
	for field, msg := range e {
		return field + ": " + msg
	}
	return "validation failed"
}

// Validate checks the event definition field by field
func (d EventDefinition) Validate() FieldErrors {
	errs := FieldErrors{}
	if d.Concept == "" {
		errs["concepto"] = "El concepto es obligatorio"
	}
	if !d.Type.IsValid() {
		errs["tipo"] = "Tipo de aporte no válido"
	}
	if d.Period.IsZero() || !valueobject.IsValidMonth(d.Period.Month) {
		errs["periodo"] = "El periodo es obligatorio"
	}
	if d.BaseAmount.IsNegative() {
		errs["monto_base"] = "El monto no puede ser negativo"
	}
	if d.DefaultDate.IsZero() {
		errs["fecha_defecto"] = "La fecha es obligatoria"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// MemberEntry is the wizard's per-member selection and override state.
// Every known member gets exactly one entry for the lifetime of a wizard run.
type MemberEntry struct {
	MemberID  uuid.UUID       `json:"socio_id"`
	Name      string          `json:"nombre"`
	Document  string          `json:"dni"`
	Lot       string          `json:"lote"`
	Active    bool            `json:"activo"`
	Duplicate bool            `json:"duplicado"`
	Selected  bool            `json:"seleccionado"`
	Amount    decimal.Decimal `json:"monto"`
	Date      time.Time       `json:"fecha"`
	Comment   string          `json:"comentario"`
}

// Summary is the read-only snapshot frozen when the operator leaves the
// selection step. It stays fixed while the confirmation screen is shown.
type Summary struct {
	Selected           int             `json:"seleccionados"`
	Unselected         int             `json:"no_seleccionados"`
	TotalAmount        decimal.Decimal `json:"total_monto"`
	WithComments       int             `json:"con_comentarios"`
	DuplicatesExcluded int             `json:"duplicados"`
}

// Wizard is the explicit state of one bulk registration run. Every
// transition is a method that validates the current step first, so the
// flow can be unit tested without any transport or storage attached.
type Wizard struct {
	Step    WizardStep      `json:"paso"`
	Event   EventDefinition `json:"evento"`
	Entries []MemberEntry   `json:"socios"`
	Summary *Summary        `json:"resumen,omitempty"`
	// LastError holds the message of a failed persistence attempt after the
	// wizard has returned to the confirmation step.
	LastError string `json:"ultimo_error,omitempty"`
}

// NewWizard starts a wizard at the event definition step
func NewWizard() *Wizard {
	return &Wizard{Step: StepDefiningEvent}
}

// DefineEvent validates and stores the event definition. Validation
// failures keep the wizard in the defining step and report per field.
func (w *Wizard) DefineEvent(def EventDefinition) error {
	if w.Step != StepDefiningEvent {
		return shared.ErrInvalidState
	}
	if errs := def.Validate(); errs != nil {
		return errs
	}
	if def.CreatedBy == "" {
		def.CreatedBy = dues.DefaultCreatorName
	}
	w.Event = def
	return nil
}

// BeginSelection moves to the selection step, seeding one entry per member.
// Members flagged as duplicates for the event's period start deselected;
// everyone else starts selected with the base amount and default date.
// The duplicate flag is advisory: the operator may still force-select.
func (w *Wizard) BeginSelection(members []member.Member, duplicates []dues.DueRecord) error {
	if w.Step != StepDefiningEvent {
		return shared.ErrInvalidState
	}
	if w.Event.Concept == "" {
		return shared.NewDomainError("EVENT_NOT_DEFINED", "Define the event before selecting members")
	}

	dupSet := make(map[uuid.UUID]bool, len(duplicates))
	for _, d := range duplicates {
		dupSet[d.MemberID] = true
	}

	w.Entries = make([]MemberEntry, 0, len(members))
	for _, m := range members {
		w.Entries = append(w.Entries, MemberEntry{
			MemberID:  m.ID,
			Name:      m.FullName(),
			Document:  m.Document,
			Lot:       m.Lot,
			Active:    m.IsActive(),
			Duplicate: dupSet[m.ID],
			Selected:  !dupSet[m.ID],
			Amount:    w.Event.BaseAmount,
			Date:      w.Event.DefaultDate,
		})
	}
	w.Step = StepSelectingMembers
	return nil
}

// Entry returns the selection entry for a member, if one exists
func (w *Wizard) Entry(memberID uuid.UUID) (*MemberEntry, bool) {
	for i := range w.Entries {
		if w.Entries[i].MemberID == memberID {
			return &w.Entries[i], true
		}
	}
	return nil, false
}

// Toggle flips the selection of one member
func (w *Wizard) Toggle(memberID uuid.UUID) error {
	if w.Step != StepSelectingMembers {
		return shared.ErrInvalidState
	}
	for i := range w.Entries {
		if w.Entries[i].MemberID == memberID {
			w.Entries[i].Selected = !w.Entries[i].Selected
			return nil
		}
	}
	return shared.ErrNotFound
}

// SelectAll selects every entry matching the search term. An empty term
// covers the whole member set.
func (w *Wizard) SelectAll(search string) error {
	return w.setSelection(search, func(e *MemberEntry) bool { return true })
}

// DeselectAll deselects every entry matching the search term
func (w *Wizard) DeselectAll(search string) error {
	return w.setSelection(search, func(e *MemberEntry) bool { return false })
}

// SelectActiveOnly selects active members and deselects inactive ones,
// within the subset matching the search term.
func (w *Wizard) SelectActiveOnly(search string) error {
	return w.setSelection(search, func(e *MemberEntry) bool { return e.Active })
}

func (w *Wizard) setSelection(search string, selected func(e *MemberEntry) bool) error {
	if w.Step != StepSelectingMembers {
		return shared.ErrInvalidState
	}
	for i := range w.Entries {
		if entryMatchesSearch(&w.Entries[i], search) {
			w.Entries[i].Selected = selected(&w.Entries[i])
		}
	}
	return nil
}

func entryMatchesSearch(e *MemberEntry, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Name), term) ||
		strings.Contains(strings.ToLower(e.Document), term) ||
		strings.Contains(strings.ToLower(e.Lot), term)
}

// Override replaces one member's amount, date and comment. The derived
// paid/pending state follows from the amount at synthesis time.
func (w *Wizard) Override(memberID uuid.UUID, amount decimal.Decimal, date time.Time, comment string) error {
	if w.Step != StepSelectingMembers {
		return shared.ErrInvalidState
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	for i := range w.Entries {
		if w.Entries[i].MemberID == memberID {
			w.Entries[i].Amount = amount
			w.Entries[i].Date = date
			w.Entries[i].Comment = comment
			return nil
		}
	}
	return shared.ErrNotFound
}

// Confirm freezes the selection into a summary and advances to the
// confirmation step. A wizard over an empty member set cannot advance.
func (w *Wizard) Confirm() (*Summary, error) {
	if w.Step != StepSelectingMembers {
		return nil, shared.ErrInvalidState
	}
	if len(w.Entries) == 0 {
		return nil, shared.ErrZeroScope
	}

	summary := Summary{TotalAmount: decimal.Zero}
	for _, e := range w.Entries {
		if e.Duplicate {
			summary.DuplicatesExcluded++
		}
		if e.Selected {
			summary.Selected++
			summary.TotalAmount = summary.TotalAmount.Add(e.Amount)
			if e.Comment != "" {
				summary.WithComments++
			}
		} else {
			summary.Unselected++
		}
	}

	w.Summary = &summary
	w.Step = StepConfirmingSummary
	return w.Summary, nil
}

// Back returns from the confirmation step to selection. The frozen summary
// is discarded; per-member overrides are kept.
func (w *Wizard) Back() error {
	if w.Step != StepConfirmingSummary {
		return shared.ErrInvalidState
	}
	w.Summary = nil
	w.LastError = ""
	w.Step = StepSelectingMembers
	return nil
}

// Cancel abandons the wizard from any interactive step
func (w *Wizard) Cancel() error {
	switch w.Step {
	case StepDefiningEvent, StepSelectingMembers, StepConfirmingSummary:
		w.Step = StepCancelled
		return nil
	default:
		return shared.ErrInvalidState
	}
}

// BeginPersisting synthesizes exactly one due record per known member and
// advances to the persisting step. Selected members keep their override
// amount, date and comment; unselected members get a zero amount, the
// default date and their comment or "No pagó" when they gave none.
func (w *Wizard) BeginPersisting() ([]dues.DueRecord, error) {
	if w.Step != StepConfirmingSummary {
		return nil, shared.ErrInvalidState
	}

	records := make([]dues.DueRecord, 0, len(w.Entries))
	for _, e := range w.Entries {
		amount := decimal.Zero
		date := w.Event.DefaultDate
		comment := e.Comment
		if e.Selected {
			amount = e.Amount
			date = e.Date
		} else if comment == "" {
			comment = dues.DefaultUnpaidComment
		}

		record, err := dues.NewDueRecord(
			e.MemberID,
			w.Event.Concept,
			w.Event.Type,
			w.Event.Period,
			amount,
			date,
			comment,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	w.LastError = ""
	w.Step = StepPersisting
	return records, nil
}

// Complete marks the run as finished after a successful persistence
func (w *Wizard) Complete() error {
	if w.Step != StepPersisting {
		return shared.ErrInvalidState
	}
	w.Step = StepDone
	return nil
}

// Fail returns the wizard to the confirmation step after a failed
// persistence attempt, keeping the frozen summary and surfacing the error.
func (w *Wizard) Fail(err error) error {
	if w.Step != StepPersisting {
		return shared.ErrInvalidState
	}
	if err != nil {
		w.LastError = err.Error()
	}
	w.Step = StepConfirmingSummary
	return nil
}
