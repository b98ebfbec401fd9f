package ussd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/umurima-rw/umurima/internal/bridge"
	"github.com/umurima-rw/umurima/internal/divisions"
	"github.com/umurima-rw/umurima/internal/domain"
	"github.com/umurima-rw/umurima/internal/i18n"
	"github.com/umurima-rw/umurima/internal/session"
	"github.com/umurima-rw/umurima/internal/store"
	"github.com/umurima-rw/umurima/internal/weather"
)

const (
	maxNameLen        = 50
	maxDescriptionLen = 200
	maxStatusEntries  = 3
)

// Matcher finds a graduate for a farmer's location and service type.
// Satisfied by matching.Engine.
type Matcher interface {
	FindMatch(ctx context.Context, loc domain.Location, svc domain.ServiceType) (*domain.Graduate, error)
}

// Machine drives the USSD dialog. One gateway callback is one turn: the
// machine consumes the last input token against the current session state,
// performs at most one transition, and renders the next prompt.
type Machine struct {
	sessions  session.Store
	repo      store.Repository
	divisions divisions.Provider
	matcher   Matcher
	weather   weather.Lookup
	notifier  bridge.Notifier
}

// NewMachine wires the state machine with its collaborators.
func NewMachine(
	sessions session.Store,
	repo store.Repository,
	div divisions.Provider,
	matcher Matcher,
	wx weather.Lookup,
	notifier bridge.Notifier,
) *Machine {
	return &Machine{
		sessions:  sessions,
		repo:      repo,
		divisions: div,
		matcher:   matcher,
		weather:   wx,
		notifier:  notifier,
	}
}

// lastToken extracts this turn's input from the gateway's accumulated,
// *-joined dialog string. Session state already captures the history, so
// only the final token matters.
func lastToken(text string) string {
	if text == "" {
		return ""
	}
	parts := strings.Split(text, "*")
	return strings.TrimSpace(parts[len(parts)-1])
}

// Handle processes one turn and always produces a reply. Collaborator
// failures end the dialog with a generic localized message; the session is
// cleared so the next dial starts clean.
func (m *Machine) Handle(ctx context.Context, sessionID, phone, text string) *Reply {
	sess := m.sessions.Get(sessionID)
	sess.Phone = phone

	reply, err := m.turn(ctx, sess, text)
	if err != nil {
		slog.Error("USSD turn failed",
			"session_id", sessionID,
			"state", sess.State.String(),
			"error", err)
		m.sessions.Clear(sessionID)
		return EndWith(i18n.Render(i18n.KeyGenericError, sess.Language))
	}

	if reply.End {
		m.sessions.Clear(sessionID)
	} else {
		m.sessions.Update(sessionID, func(s *domain.Session) { *s = *sess })
	}
	return reply
}

func (m *Machine) turn(ctx context.Context, sess *domain.Session, text string) (*Reply, error) {
	// Empty input is the initial dial: every dialog starts at language
	// selection, whatever a stale session might say.
	if text == "" {
		sess.State = domain.StateLanguageSelection
		return Con(i18n.Render(i18n.KeyLanguagePrompt, sess.Language)), nil
	}

	input := lastToken(text)

	switch sess.State {
	case domain.StateLanguageSelection:
		return m.handleLanguage(ctx, sess, input)
	case domain.StateMainMenu:
		return m.handleMainMenu(ctx, sess, input)
	case domain.StateSubMenuAck:
		return m.handleSubMenuAck(ctx, sess, input)
	case domain.StateRegisterName:
		return m.handleRegisterName(ctx, sess, input)
	case domain.StateRegisterProvince:
		return m.handleRegisterProvince(ctx, sess, input)
	case domain.StateRegisterDistrict:
		return m.handleRegisterDistrict(ctx, sess, input)
	case domain.StateRegisterSector:
		return m.handleRegisterSector(ctx, sess, input)
	case domain.StateRegisterCell:
		return m.handleRegisterCell(ctx, sess, input)
	case domain.StateUpdateMenu:
		return m.handleUpdateMenu(ctx, sess, input)
	case domain.StateServiceType:
		return m.handleServiceType(ctx, sess, input)
	case domain.StateServiceDescription:
		return m.handleServiceDescription(ctx, sess, input)
	case domain.StateFarmingTips:
		return m.handleFarmingTips(ctx, sess, input)
	}
	return nil, fmt.Errorf("unhandled session state %d", sess.State)
}

func (m *Machine) handleLanguage(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	lang, ok := domain.ParseLanguage(input)
	if !ok {
		return Con(invalidPrefix(sess.Language) + i18n.Render(i18n.KeyLanguagePrompt, sess.Language)), nil
	}
	sess.Language = lang
	sess.State = domain.StateMainMenu
	return m.mainMenuReply(ctx, sess, "")
}

// mainMenuReply renders the main menu, with an optional error prefix, after
// moving the session there.
func (m *Machine) mainMenuReply(ctx context.Context, sess *domain.Session, prefix string) (*Reply, error) {
	farmer, err := m.repo.GetFarmer(ctx, sess.Phone)
	if err != nil {
		return nil, err
	}
	sess.State = domain.StateMainMenu
	return Con(prefix + renderMainMenu(sess.Language, farmer != nil)), nil
}

func renderMainMenu(lang domain.Language, registered bool) string {
	first := i18n.KeyMainRegister
	if registered {
		first = i18n.KeyMainUpdate
	}
	lines := []string{
		i18n.Render(i18n.KeyMainHeader, lang),
		"1. " + i18n.Render(first, lang),
		"2. " + i18n.Render(i18n.KeyMainRequest, lang),
		"3. " + i18n.Render(i18n.KeyMainTips, lang),
		"4. " + i18n.Render(i18n.KeyMainWeather, lang),
		"5. " + i18n.Render(i18n.KeyMainStatus, lang),
		"6. " + i18n.Render(i18n.KeyMainLanguage, lang),
		"7. " + i18n.Render(i18n.KeyMainExit, lang),
	}
	return strings.Join(lines, "\n")
}

func invalidPrefix(lang domain.Language) string {
	return i18n.Render(i18n.KeyInvalidOption, lang) + "\n"
}

func (m *Machine) handleMainMenu(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	farmer, err := m.repo.GetFarmer(ctx, sess.Phone)
	if err != nil {
		return nil, err
	}

	switch input {
	case "1":
		if farmer == nil {
			sess.State = domain.StateRegisterName
			sess.RegDraft = domain.RegistrationDraft{}
			return Con(i18n.Render(i18n.KeyNamePrompt, sess.Language)), nil
		}
		sess.State = domain.StateUpdateMenu
		return Con(i18n.Render(i18n.KeyUpdateMenu, sess.Language)), nil

	case "2":
		if farmer == nil {
			return m.ackReply(sess, i18n.KeyRegisterRequired), nil
		}
		sess.State = domain.StateServiceType
		sess.ReqDraft = domain.ServiceRequestDraft{}
		return Con(i18n.Render(i18n.KeyServiceTypePrompt, sess.Language)), nil

	case "3":
		sess.State = domain.StateFarmingTips
		return Con(i18n.Render(i18n.KeyTipsMenu, sess.Language)), nil

	case "4":
		if farmer == nil {
			return m.ackReply(sess, i18n.KeyRegisterRequired), nil
		}
		return m.weatherReply(ctx, sess, farmer), nil

	case "5":
		if farmer == nil {
			return m.ackReply(sess, i18n.KeyRegisterRequired), nil
		}
		return m.statusReply(ctx, sess)

	case "6":
		sess.State = domain.StateLanguageSelection
		return Con(i18n.Render(i18n.KeyLanguagePrompt, sess.Language)), nil

	case "7":
		return EndWith(i18n.Render(i18n.KeyGoodbye, sess.Language)), nil
	}

	return Con(invalidPrefix(sess.Language) + renderMainMenu(sess.Language, farmer != nil)), nil
}

// ackReply moves the dialog to the acknowledgment state with a gating
// message, so the farmer confirms before returning to the main menu.
func (m *Machine) ackReply(sess *domain.Session, key string) *Reply {
	sess.State = domain.StateSubMenuAck
	return Con(i18n.Render(key, sess.Language) + "\n" + i18n.Render(i18n.KeyAckFooter, sess.Language))
}

func (m *Machine) handleSubMenuAck(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	if input == "0" {
		return m.mainMenuReply(ctx, sess, "")
	}
	return m.mainMenuReply(ctx, sess, invalidPrefix(sess.Language))
}

// weatherReply is a one-shot flow: fetch, render, end. Lookup failure is a
// value here (the localized unavailable message), not a turn error.
func (m *Machine) weatherReply(ctx context.Context, sess *domain.Session, farmer *domain.Farmer) *Reply {
	text, err := m.weather.CurrentConditions(ctx, farmer.Location.DistrictName, farmer.Location.ProvinceName)
	if err != nil {
		slog.Warn("Weather lookup failed",
			"district", farmer.Location.DistrictName,
			"error", err)
		return EndWith(i18n.Render(i18n.KeyWeatherUnavailable, sess.Language))
	}
	return EndWith(text)
}

// statusReply is a one-shot flow listing the farmer's recent requests.
func (m *Machine) statusReply(ctx context.Context, sess *domain.Session) (*Reply, error) {
	reqs, err := m.repo.ListRequestsByPhone(ctx, sess.Phone, maxStatusEntries)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return EndWith(i18n.Render(i18n.KeyStatusNone, sess.Language)), nil
	}

	lines := []string{i18n.Render(i18n.KeyStatusHeader, sess.Language)}
	for i, req := range reqs {
		lines = append(lines, i18n.Render(i18n.KeyStatusLine, sess.Language,
			i+1,
			i18n.Render(i18n.ServiceKey(req.ServiceType), sess.Language),
			i18n.Render(i18n.StatusKey(req.Status), sess.Language),
		))
	}
	return EndWith(strings.Join(lines, "\n")), nil
}

func (m *Machine) handleFarmingTips(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	switch input {
	case "0":
		return m.mainMenuReply(ctx, sess, "")
	case "1":
		return EndWith(i18n.Render(i18n.KeyTip1, sess.Language)), nil
	case "2":
		return EndWith(i18n.Render(i18n.KeyTip2, sess.Language)), nil
	case "3":
		return EndWith(i18n.Render(i18n.KeyTip3, sess.Language)), nil
	case "4":
		return EndWith(i18n.Render(i18n.KeyTip4, sess.Language)), nil
	}
	return Con(invalidPrefix(sess.Language) + i18n.Render(i18n.KeyTipsMenu, sess.Language)), nil
}
