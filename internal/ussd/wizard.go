package ussd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umurima-rw/umurima/internal/divisions"
	"github.com/umurima-rw/umurima/internal/domain"
	"github.com/umurima-rw/umurima/internal/i18n"
)

// Registration wizard. Each selection step fetches its option list fresh,
// because the list depends on the parent selection just made. Input "0"
// steps back exactly one level and discards only the fields of the level
// being left.

func (m *Machine) promptProvinces(ctx context.Context, sess *domain.Session, prefix string) (*Reply, error) {
	provinces, err := m.divisions.Provinces(ctx)
	if err != nil {
		return nil, err
	}
	return Con(prefix + i18n.Render(i18n.KeyProvincePrompt, sess.Language,
		i18n.NumberedList(divisions.Names(provinces)))), nil
}

func (m *Machine) promptDistricts(ctx context.Context, sess *domain.Session, prefix string) (*Reply, error) {
	districts, err := m.divisions.Districts(ctx, sess.RegDraft.Location.ProvinceCode)
	if err != nil {
		return nil, err
	}
	return Con(prefix + i18n.Render(i18n.KeyDistrictPrompt, sess.Language,
		i18n.NumberedList(divisions.Names(districts)))), nil
}

func (m *Machine) promptSectors(ctx context.Context, sess *domain.Session, prefix string) (*Reply, error) {
	sectors, err := m.divisions.Sectors(ctx, sess.RegDraft.Location.DistrictCode)
	if err != nil {
		return nil, err
	}
	return Con(prefix + i18n.Render(i18n.KeySectorPrompt, sess.Language,
		i18n.NumberedList(divisions.Names(sectors)))), nil
}

func (m *Machine) promptCells(ctx context.Context, sess *domain.Session, prefix string) (*Reply, error) {
	cells, err := m.divisions.Cells(ctx, sess.RegDraft.Location.SectorCode)
	if err != nil {
		return nil, err
	}
	return Con(prefix + i18n.Render(i18n.KeyCellPrompt, sess.Language,
		i18n.NumberedList(divisions.Names(cells)))), nil
}

func (m *Machine) handleRegisterName(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	if input == "0" {
		if sess.RegDraft.Updating {
			sess.State = domain.StateUpdateMenu
			return Con(i18n.Render(i18n.KeyUpdateMenu, sess.Language)), nil
		}
		return m.mainMenuReply(ctx, sess, "")
	}

	if len(input) == 0 || len(input) > maxNameLen {
		return Con(i18n.Render(i18n.KeyNameLength, sess.Language) + "\n" +
			i18n.Render(i18n.KeyNamePrompt, sess.Language)), nil
	}

	sess.RegDraft.Name = input

	// Updating only the name: the seeded draft already has a complete
	// location, so commit right away instead of replaying the wizard.
	if sess.RegDraft.Updating && sess.RegDraft.Location.Complete() {
		return m.commitRegistration(ctx, sess)
	}

	sess.State = domain.StateRegisterProvince
	return m.promptProvinces(ctx, sess, "")
}

func (m *Machine) handleRegisterProvince(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	if input == "0" {
		sess.RegDraft.Location.ProvinceCode = ""
		sess.RegDraft.Location.ProvinceName = ""
		sess.State = domain.StateRegisterName
		return Con(i18n.Render(i18n.KeyNamePrompt, sess.Language)), nil
	}

	provinces, err := m.divisions.Provinces(ctx)
	if err != nil {
		return nil, err
	}
	idx, ok := i18n.ParseChoice(input, len(provinces))
	if !ok {
		return m.promptProvinces(ctx, sess, invalidPrefix(sess.Language))
	}

	sess.RegDraft.Location.ProvinceCode = provinces[idx].Code
	sess.RegDraft.Location.ProvinceName = provinces[idx].Name
	sess.State = domain.StateRegisterDistrict
	return m.promptDistricts(ctx, sess, "")
}

func (m *Machine) handleRegisterDistrict(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	if input == "0" {
		sess.RegDraft.Location.DistrictCode = ""
		sess.RegDraft.Location.DistrictName = ""
		sess.State = domain.StateRegisterProvince
		return m.promptProvinces(ctx, sess, "")
	}

	districts, err := m.divisions.Districts(ctx, sess.RegDraft.Location.ProvinceCode)
	if err != nil {
		return nil, err
	}
	idx, ok := i18n.ParseChoice(input, len(districts))
	if !ok {
		return m.promptDistricts(ctx, sess, invalidPrefix(sess.Language))
	}

	sess.RegDraft.Location.DistrictCode = districts[idx].Code
	sess.RegDraft.Location.DistrictName = districts[idx].Name
	sess.State = domain.StateRegisterSector
	return m.promptSectors(ctx, sess, "")
}

func (m *Machine) handleRegisterSector(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	if input == "0" {
		sess.RegDraft.Location.SectorCode = ""
		sess.RegDraft.Location.SectorName = ""
		sess.State = domain.StateRegisterDistrict
		return m.promptDistricts(ctx, sess, "")
	}

	sectors, err := m.divisions.Sectors(ctx, sess.RegDraft.Location.DistrictCode)
	if err != nil {
		return nil, err
	}
	idx, ok := i18n.ParseChoice(input, len(sectors))
	if !ok {
		return m.promptSectors(ctx, sess, invalidPrefix(sess.Language))
	}

	sess.RegDraft.Location.SectorCode = sectors[idx].Code
	sess.RegDraft.Location.SectorName = sectors[idx].Name
	sess.State = domain.StateRegisterCell
	return m.promptCells(ctx, sess, "")
}

func (m *Machine) handleRegisterCell(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	if input == "0" {
		sess.RegDraft.Location.CellCode = ""
		sess.RegDraft.Location.CellName = ""
		sess.State = domain.StateRegisterSector
		return m.promptSectors(ctx, sess, "")
	}

	cells, err := m.divisions.Cells(ctx, sess.RegDraft.Location.SectorCode)
	if err != nil {
		return nil, err
	}
	idx, ok := i18n.ParseChoice(input, len(cells))
	if !ok {
		return m.promptCells(ctx, sess, invalidPrefix(sess.Language))
	}

	sess.RegDraft.Location.CellCode = cells[idx].Code
	sess.RegDraft.Location.CellName = cells[idx].Name
	return m.commitRegistration(ctx, sess)
}

// commitRegistration is the registration wizard's single side-effect point.
// The upsert is keyed by phone, so re-registering updates in place instead
// of duplicating.
func (m *Machine) commitRegistration(ctx context.Context, sess *domain.Session) (*Reply, error) {
	existing, err := m.repo.GetFarmer(ctx, sess.Phone)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	farmer := &domain.Farmer{
		Phone:     sess.Phone,
		Name:      sess.RegDraft.Name,
		Location:  sess.RegDraft.Location,
		Language:  sess.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		farmer.CreatedAt = existing.CreatedAt
	}

	if err := m.repo.UpsertFarmer(ctx, farmer); err != nil {
		return nil, err
	}
	m.notifier.FarmerSaved(farmer)

	if existing != nil {
		return EndWith(i18n.Render(i18n.KeyUpdateDone, sess.Language)), nil
	}
	return EndWith(i18n.Render(i18n.KeyRegisterDone, sess.Language,
		farmer.Name, farmer.Location.String())), nil
}

func (m *Machine) handleUpdateMenu(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	switch input {
	case "0":
		return m.mainMenuReply(ctx, sess, "")
	case "1", "2":
	default:
		return Con(invalidPrefix(sess.Language) + i18n.Render(i18n.KeyUpdateMenu, sess.Language)), nil
	}

	farmer, err := m.repo.GetFarmer(ctx, sess.Phone)
	if err != nil {
		return nil, err
	}
	if farmer == nil {
		// Farmer vanished between turns (deleted on the web side).
		return m.ackReply(sess, i18n.KeyRegisterRequired), nil
	}

	// Seed the wizard from the stored record so untouched fields survive.
	sess.RegDraft = domain.RegistrationDraft{
		Name:     farmer.Name,
		Location: farmer.Location,
		Updating: true,
	}

	if input == "1" {
		sess.State = domain.StateRegisterName
		return Con(i18n.Render(i18n.KeyNamePrompt, sess.Language)), nil
	}

	sess.RegDraft.Location = domain.Location{}
	sess.State = domain.StateRegisterProvince
	return m.promptProvinces(ctx, sess, "")
}

// Service request wizard.

func (m *Machine) handleServiceType(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	switch input {
	case "0":
		return m.mainMenuReply(ctx, sess, "")
	case "1":
		sess.ReqDraft.ServiceType = domain.ServiceAgronomy
	case "2":
		sess.ReqDraft.ServiceType = domain.ServiceVeterinary
	default:
		return Con(invalidPrefix(sess.Language) + i18n.Render(i18n.KeyServiceTypePrompt, sess.Language)), nil
	}

	sess.State = domain.StateServiceDescription
	return Con(i18n.Render(i18n.KeyDescriptionPrompt, sess.Language)), nil
}

func (m *Machine) handleServiceDescription(ctx context.Context, sess *domain.Session, input string) (*Reply, error) {
	if input == "0" {
		sess.State = domain.StateServiceType
		return Con(i18n.Render(i18n.KeyServiceTypePrompt, sess.Language)), nil
	}

	if len(input) == 0 || len(input) > maxDescriptionLen {
		return Con(i18n.Render(i18n.KeyDescLength, sess.Language) + "\n" +
			i18n.Render(i18n.KeyDescriptionPrompt, sess.Language)), nil
	}

	return m.commitServiceRequest(ctx, sess, input)
}

// commitServiceRequest is the service wizard's single side-effect point:
// match, persist, notify, end.
func (m *Machine) commitServiceRequest(ctx context.Context, sess *domain.Session, description string) (*Reply, error) {
	farmer, err := m.repo.GetFarmer(ctx, sess.Phone)
	if err != nil {
		return nil, err
	}
	if farmer == nil {
		return nil, fmt.Errorf("service request from unregistered phone %s", sess.Phone)
	}

	grad, err := m.matcher.FindMatch(ctx, farmer.Location, sess.ReqDraft.ServiceType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req := &domain.ServiceRequest{
		ID:          uuid.NewString(),
		FarmerPhone: farmer.Phone,
		ServiceType: sess.ReqDraft.ServiceType,
		Description: description,
		Status:      domain.StatusNoMatch,
		CreatedAt:   now,
	}
	if grad != nil {
		req.Status = domain.StatusAssigned
		req.GraduatePhone = grad.Phone
		req.AssignedAt = &now
	}

	if err := m.repo.CreateServiceRequest(ctx, req); err != nil {
		return nil, err
	}
	m.notifier.RequestCreated(req)

	if grad != nil {
		return EndWith(i18n.Render(i18n.KeyRequestAssigned, sess.Language,
			grad.Name, grad.Phone)), nil
	}
	return EndWith(i18n.Render(i18n.KeyRequestNoMatch, sess.Language)), nil
}
