package domain

// Language is a supported dialog locale.
type Language string

const (
	LangEnglish     Language = "en"
	LangKinyarwanda Language = "rw"
	LangSwahili     Language = "sw"
)

// ParseLanguage maps a language-menu digit to a locale.
func ParseLanguage(input string) (Language, bool) {
	switch input {
	case "1":
		return LangEnglish, true
	case "2":
		return LangKinyarwanda, true
	case "3":
		return LangSwahili, true
	}
	return "", false
}

// State identifies a node in the USSD dialog state machine.
type State int

const (
	StateLanguageSelection State = iota
	StateMainMenu
	StateSubMenuAck
	StateRegisterName
	StateRegisterProvince
	StateRegisterDistrict
	StateRegisterSector
	StateRegisterCell
	StateUpdateMenu
	StateServiceType
	StateServiceDescription
	StateFarmingTips
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateLanguageSelection:
		return "language_selection"
	case StateMainMenu:
		return "main_menu"
	case StateSubMenuAck:
		return "submenu_ack"
	case StateRegisterName:
		return "register_name"
	case StateRegisterProvince:
		return "register_province"
	case StateRegisterDistrict:
		return "register_district"
	case StateRegisterSector:
		return "register_sector"
	case StateRegisterCell:
		return "register_cell"
	case StateUpdateMenu:
		return "update_menu"
	case StateServiceType:
		return "service_type"
	case StateServiceDescription:
		return "service_description"
	case StateFarmingTips:
		return "farming_tips"
	}
	return "unknown"
}

// RegistrationDraft accumulates the registration wizard's answers across
// turns. Location fields fill in hierarchy order; stepping back clears only
// the level being left.
type RegistrationDraft struct {
	Name     string
	Location Location
	// Updating is set when the wizard was entered from the update menu,
	// so back navigation at the first step returns there.
	Updating bool
}

// ServiceRequestDraft accumulates the service request wizard's answers.
type ServiceRequestDraft struct {
	ServiceType ServiceType
}

// Session is the ephemeral per-dialog state, keyed by the gateway-supplied
// session id. It lives only for the duration of one USSD dialog.
type Session struct {
	ID       string
	Phone    string
	Language Language
	State    State
	RegDraft RegistrationDraft
	ReqDraft ServiceRequestDraft
}
