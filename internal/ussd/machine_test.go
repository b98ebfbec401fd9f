package ussd

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/umurima-rw/umurima/internal/divisions"
	"github.com/umurima-rw/umurima/internal/domain"
	"github.com/umurima-rw/umurima/internal/session"
	"github.com/umurima-rw/umurima/internal/store"
)

// fakeRepo is an in-memory store.Repository for dialog tests.
type fakeRepo struct {
	farmers   map[string]*domain.Farmer
	graduates []*domain.Graduate
	requests  []*domain.ServiceRequest

	failGetFarmer bool
	upserts       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{farmers: make(map[string]*domain.Farmer)}
}

func (f *fakeRepo) GetFarmer(_ context.Context, phone string) (*domain.Farmer, error) {
	if f.failGetFarmer {
		return nil, fmt.Errorf("database is down")
	}
	farmer, ok := f.farmers[phone]
	if !ok {
		return nil, nil
	}
	copied := *farmer
	return &copied, nil
}

func (f *fakeRepo) UpsertFarmer(_ context.Context, farmer *domain.Farmer) error {
	f.upserts++
	copied := *farmer
	f.farmers[farmer.Phone] = &copied
	return nil
}

func (f *fakeRepo) GetGraduate(_ context.Context, phone string) (*domain.Graduate, error) {
	for _, g := range f.graduates {
		if g.Phone == phone {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpsertGraduate(_ context.Context, grad *domain.Graduate) error {
	f.graduates = append(f.graduates, grad)
	return nil
}

func (f *fakeRepo) FindAvailableGraduates(_ context.Context, q store.GraduateQuery) ([]*domain.Graduate, error) {
	var out []*domain.Graduate
	for _, g := range f.graduates {
		if !g.Available || !g.Expertise.Covers(q.ServiceType) {
			continue
		}
		if q.ProvinceCode != "" && g.Location.ProvinceCode != q.ProvinceCode {
			continue
		}
		if q.DistrictCode != "" && g.Location.DistrictCode != q.DistrictCode {
			continue
		}
		if q.SectorCode != "" && g.Location.SectorCode != q.SectorCode {
			continue
		}
		if q.CellCode != "" && g.Location.CellCode != q.CellCode {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeRepo) CreateServiceRequest(_ context.Context, req *domain.ServiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeRepo) GetServiceRequest(_ context.Context, id string) (*domain.ServiceRequest, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListRequestsByPhone(_ context.Context, phone string, limit int) ([]*domain.ServiceRequest, error) {
	var out []*domain.ServiceRequest
	for i := len(f.requests) - 1; i >= 0 && len(out) < limit; i-- {
		if f.requests[i].FarmerPhone == phone {
			out = append(out, f.requests[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateRequestStatus(_ context.Context, id string, status domain.RequestStatus) error {
	for _, r := range f.requests {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return fmt.Errorf("request %s not found", id)
}

func (f *fakeRepo) Ping(context.Context) error { return nil }

func (f *fakeRepo) Close() error { return nil }

// fakeMatcher returns a fixed graduate (or none).
type fakeMatcher struct {
	grad *domain.Graduate
}

func (m *fakeMatcher) FindMatch(context.Context, domain.Location, domain.ServiceType) (*domain.Graduate, error) {
	return m.grad, nil
}

// fakeWeather returns a fixed report or an error.
type fakeWeather struct {
	report string
	err    error
}

func (w *fakeWeather) CurrentConditions(context.Context, string, string) (string, error) {
	return w.report, w.err
}

// fakeNotifier records bridge notifications.
type fakeNotifier struct {
	farmers  int
	requests int
}

func (n *fakeNotifier) FarmerSaved(*domain.Farmer) { n.farmers++ }

func (n *fakeNotifier) RequestCreated(*domain.ServiceRequest) { n.requests++ }

type fixture struct {
	machine  *Machine
	sessions *session.MemoryStore
	repo     *fakeRepo
	matcher  *fakeMatcher
	weather  *fakeWeather
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	div, err := divisions.NewEmbedded()
	if err != nil {
		t.Fatalf("load divisions: %v", err)
	}

	f := &fixture{
		sessions: session.NewMemoryStore(domain.LangEnglish),
		repo:     newFakeRepo(),
		matcher:  &fakeMatcher{},
		weather:  &fakeWeather{err: fmt.Errorf("not configured")},
		notifier: &fakeNotifier{},
	}
	f.machine = NewMachine(f.sessions, f.repo, div, f.matcher, f.weather, f.notifier)
	return f
}

const (
	testSession = "ATUid_1234"
	testPhone   = "+250780000001"
)

func (f *fixture) turn(text string) *Reply {
	return f.machine.Handle(context.Background(), testSession, testPhone, text)
}

// dial runs the dialog from the initial empty request through the given
// accumulated inputs, returning the last reply.
func (f *fixture) dial(inputs ...string) *Reply {
	reply := f.turn("")
	acc := ""
	for _, in := range inputs {
		if acc == "" {
			acc = in
		} else {
			acc += "*" + in
		}
		reply = f.turn(acc)
	}
	return reply
}

func (f *fixture) registerFarmer(name string) {
	now := time.Now()
	f.repo.farmers[testPhone] = &domain.Farmer{
		Phone: testPhone,
		Name:  name,
		Location: domain.Location{
			ProvinceCode: "01", ProvinceName: "Kigali City",
			DistrictCode: "0101", DistrictName: "Gasabo",
			SectorCode: "010101", SectorName: "Remera",
			CellCode: "01010101", CellName: "Nyabisindu",
		},
		Language:  domain.LangEnglish,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEmptyInputStartsLanguageSelection(t *testing.T) {
	f := newFixture(t)

	reply := f.turn("")

	if reply.End {
		t.Fatal("Expected CON reply on initial dial")
	}
	if !strings.HasPrefix(reply.Wire(), "CON ") {
		t.Errorf("Expected CON prefix, got %q", reply.Wire())
	}
	if !strings.Contains(reply.Text, "1. English") {
		t.Errorf("Expected language prompt, got %q", reply.Text)
	}
}

func TestLanguageSelectionKinyarwanda(t *testing.T) {
	f := newFixture(t)

	reply := f.dial("2")

	if reply.End {
		t.Fatal("Expected CON main menu after language selection")
	}
	if !strings.Contains(reply.Text, "Serivisi z'abahinzi") {
		t.Errorf("Expected Kinyarwanda main menu, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "1. Iyandikishe") {
		t.Errorf("Unregistered farmer should see register first, got %q", reply.Text)
	}
}

func TestMainMenuShowsUpdateForRegistered(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")

	reply := f.dial("1")

	if !strings.Contains(reply.Text, "1. Update my details") {
		t.Errorf("Registered farmer should see update first, got %q", reply.Text)
	}
	if strings.Contains(reply.Text, "Register as a farmer") {
		t.Errorf("Registered farmer should not see register option, got %q", reply.Text)
	}
}

func TestInvalidMainMenuOptionRerenders(t *testing.T) {
	f := newFixture(t)

	reply := f.dial("1", "99")

	if reply.End {
		t.Fatal("Invalid option must not end the dialog")
	}
	if !strings.Contains(reply.Text, "Invalid option") {
		t.Errorf("Expected invalid-option message, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "7. Exit") {
		t.Errorf("Expected main menu re-render, got %q", reply.Text)
	}
	if got := f.sessions.Get(testSession).State; got != domain.StateMainMenu {
		t.Errorf("Expected state main_menu after invalid input, got %s", got)
	}
}

func TestRegistrationWizard(t *testing.T) {
	f := newFixture(t)

	reply := f.dial("1", "1", "Jean", "1", "1", "1", "1")

	if !reply.End {
		t.Fatalf("Expected END after cell selection, got %q", reply.Wire())
	}
	if !strings.Contains(reply.Text, "Jean") {
		t.Errorf("Expected confirmation with name, got %q", reply.Text)
	}

	farmer := f.repo.farmers[testPhone]
	if farmer == nil {
		t.Fatal("Expected farmer record to be created")
	}
	if farmer.Name != "Jean" {
		t.Errorf("Expected name Jean, got %q", farmer.Name)
	}
	if !farmer.Location.Complete() {
		t.Errorf("Expected all four location fields set, got %+v", farmer.Location)
	}
	if farmer.Location.ProvinceName != "Kigali City" || farmer.Location.CellName != "Nyabisindu" {
		t.Errorf("Unexpected location %+v", farmer.Location)
	}
	if f.notifier.farmers != 1 {
		t.Errorf("Expected 1 bridge notification, got %d", f.notifier.farmers)
	}
	if f.sessions.Len() != 0 {
		t.Errorf("Expected session cleared after END, store has %d", f.sessions.Len())
	}
}

func TestRegistrationBackStepsOneLevel(t *testing.T) {
	f := newFixture(t)

	// Advance to the sector step: language, register, name, province, district.
	f.dial("1", "1", "Jean", "1", "1")
	// Back out of the sector step.
	reply := f.turn("1*1*Jean*1*1*0")

	if reply.End {
		t.Fatal("Back navigation must not end the dialog")
	}
	if !strings.Contains(reply.Text, "Select your district") {
		t.Errorf("Expected district prompt after back, got %q", reply.Text)
	}

	sess := f.sessions.Get(testSession)
	if sess.State != domain.StateRegisterDistrict {
		t.Errorf("Expected state register_district, got %s", sess.State)
	}
	if sess.RegDraft.Name != "Jean" {
		t.Errorf("Back must keep earlier fields, lost name: %+v", sess.RegDraft)
	}
	if sess.RegDraft.Location.ProvinceCode != "01" {
		t.Errorf("Back must keep province, got %+v", sess.RegDraft.Location)
	}
	if sess.RegDraft.Location.DistrictCode != "0101" {
		t.Errorf("Back must keep the already-collected district, got %+v", sess.RegDraft.Location)
	}
	if sess.RegDraft.Location.SectorCode != "" {
		t.Errorf("Back must leave the sector unset, got %+v", sess.RegDraft.Location)
	}

	// A second back-press leaves the district step and discards its field.
	reply = f.turn("1*1*Jean*1*1*0*0")
	sess = f.sessions.Get(testSession)
	if sess.State != domain.StateRegisterProvince {
		t.Errorf("Expected state register_province, got %s", sess.State)
	}
	if sess.RegDraft.Location.DistrictCode != "" {
		t.Errorf("Second back must clear the district, got %+v", sess.RegDraft.Location)
	}
	if sess.RegDraft.Location.ProvinceCode != "01" {
		t.Errorf("Second back must still keep the province, got %+v", sess.RegDraft.Location)
	}
	if reply.End {
		t.Error("Back navigation must not end the dialog")
	}
}

func TestRegistrationNameTooLong(t *testing.T) {
	f := newFixture(t)

	longName := strings.Repeat("a", maxNameLen+1)
	reply := f.dial("1", "1", longName)

	if reply.End {
		t.Fatal("Length error must not end the dialog")
	}
	if !strings.Contains(reply.Text, "Name must be") {
		t.Errorf("Expected length error, got %q", reply.Text)
	}
	if got := f.sessions.Get(testSession).State; got != domain.StateRegisterName {
		t.Errorf("Expected state unchanged at register_name, got %s", got)
	}
}

func TestUpdateNameCommitsImmediately(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")

	// 1 -> update menu (registered), 1 -> name, then the new name.
	reply := f.dial("1", "1", "1", "Claudine")

	if !reply.End {
		t.Fatalf("Expected END after name update, got %q", reply.Wire())
	}

	farmer := f.repo.farmers[testPhone]
	if farmer.Name != "Claudine" {
		t.Errorf("Expected updated name, got %q", farmer.Name)
	}
	if farmer.Location.CellName != "Nyabisindu" {
		t.Errorf("Name update must preserve location, got %+v", farmer.Location)
	}
	if len(f.repo.farmers) != 1 {
		t.Errorf("Update must not duplicate the farmer, have %d records", len(f.repo.farmers))
	}
}

func TestUpdateLocationWalksWizard(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")

	// 1 -> update menu, 2 -> location, then pick the second of everything.
	reply := f.dial("1", "1", "2", "2", "2", "2", "2")

	if !reply.End {
		t.Fatalf("Expected END after location update, got %q", reply.Wire())
	}

	farmer := f.repo.farmers[testPhone]
	if farmer.Name != "Jean" {
		t.Errorf("Location update must preserve name, got %q", farmer.Name)
	}
	if farmer.Location.ProvinceName != "Southern Province" {
		t.Errorf("Expected new province, got %+v", farmer.Location)
	}
}

func TestServiceRequestGatedForUnregistered(t *testing.T) {
	f := newFixture(t)

	reply := f.dial("1", "2")

	if reply.End {
		t.Fatal("Gating must route to acknowledgment, not end")
	}
	if !strings.Contains(reply.Text, "register first") {
		t.Errorf("Expected register-required message, got %q", reply.Text)
	}

	// "0" acknowledges and returns to the main menu.
	reply = f.turn("1*2*0")
	if reply.End || !strings.Contains(reply.Text, "7. Exit") {
		t.Errorf("Expected main menu after ack, got %q", reply.Wire())
	}
}

func TestServiceRequestNoMatch(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")
	f.matcher.grad = nil

	reply := f.dial("1", "2", "1", "my maize has streak disease")

	if !reply.End {
		t.Fatalf("Expected END after request submission, got %q", reply.Wire())
	}
	if len(f.repo.requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(f.repo.requests))
	}

	req := f.repo.requests[0]
	if req.Status != domain.StatusNoMatch {
		t.Errorf("Expected status no_match, got %s", req.Status)
	}
	if req.GraduatePhone != "" {
		t.Errorf("no_match request must have no graduate, got %q", req.GraduatePhone)
	}
	if req.ServiceType != domain.ServiceAgronomy {
		t.Errorf("Expected agronomy, got %s", req.ServiceType)
	}
	if f.notifier.requests != 1 {
		t.Errorf("Expected 1 bridge notification, got %d", f.notifier.requests)
	}
}

func TestServiceRequestAssigned(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")
	f.matcher.grad = &domain.Graduate{
		Phone:     "+250788000099",
		Name:      "Dr. Uwase",
		Expertise: domain.ExpertiseVeterinary,
		Available: true,
	}

	reply := f.dial("1", "2", "2", "my cow stopped eating")

	if !reply.End {
		t.Fatalf("Expected END, got %q", reply.Wire())
	}
	if !strings.Contains(reply.Text, "Dr. Uwase") || !strings.Contains(reply.Text, "+250788000099") {
		t.Errorf("Expected graduate contact in confirmation, got %q", reply.Text)
	}

	req := f.repo.requests[0]
	if req.Status != domain.StatusAssigned {
		t.Errorf("Expected status assigned, got %s", req.Status)
	}
	if req.GraduatePhone != "+250788000099" {
		t.Errorf("Expected graduate reference, got %q", req.GraduatePhone)
	}
	if req.AssignedAt == nil {
		t.Error("Expected assigned_at timestamp")
	}
}

func TestServiceDescriptionTooLong(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")

	reply := f.dial("1", "2", "1", strings.Repeat("x", maxDescriptionLen+1))

	if reply.End {
		t.Fatal("Length error must not end the dialog")
	}
	if !strings.Contains(reply.Text, "Description must be") {
		t.Errorf("Expected length error, got %q", reply.Text)
	}
	if got := f.sessions.Get(testSession).State; got != domain.StateServiceDescription {
		t.Errorf("Expected state unchanged at service_description, got %s", got)
	}
	if len(f.repo.requests) != 0 {
		t.Errorf("No request may be created on invalid input, got %d", len(f.repo.requests))
	}
}

func TestExitEndsAndClearsSession(t *testing.T) {
	f := newFixture(t)

	reply := f.dial("1", "7")

	if !reply.End {
		t.Fatalf("Expected END on exit, got %q", reply.Wire())
	}
	if f.sessions.Len() != 0 {
		t.Errorf("Expected session cleared after END, store has %d", f.sessions.Len())
	}
}

func TestFarmingTipEndsDialog(t *testing.T) {
	f := newFixture(t)

	reply := f.dial("1", "3", "2")

	if !reply.End {
		t.Fatalf("Expected END with tip text, got %q", reply.Wire())
	}
	if !strings.Contains(reply.Text, "Season A") {
		t.Errorf("Expected planting season tip, got %q", reply.Text)
	}
}

func TestWeatherUnavailable(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")
	f.weather.err = fmt.Errorf("upstream down")

	reply := f.dial("1", "4")

	if !reply.End {
		t.Fatalf("Expected END, got %q", reply.Wire())
	}
	if !strings.Contains(reply.Text, "not available") {
		t.Errorf("Expected unavailable message, got %q", reply.Text)
	}
	if f.sessions.Len() != 0 {
		t.Error("Weather flow must clear the session")
	}
}

func TestWeatherReport(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")
	f.weather.err = nil
	f.weather.report = "Gasabo, Kigali City: sunny, 24 C, rainfall 0.0 mm"

	reply := f.dial("1", "4")

	if !reply.End || !strings.Contains(reply.Text, "sunny") {
		t.Errorf("Expected weather report END, got %q", reply.Wire())
	}
}

func TestRequestStatusListing(t *testing.T) {
	f := newFixture(t)
	f.registerFarmer("Jean")
	f.repo.requests = append(f.repo.requests, &domain.ServiceRequest{
		ID:            "r1",
		FarmerPhone:   testPhone,
		GraduatePhone: "+250788000099",
		ServiceType:   domain.ServiceAgronomy,
		Status:        domain.StatusAssigned,
		CreatedAt:     time.Now(),
	})

	reply := f.dial("1", "5")

	if !reply.End {
		t.Fatalf("Expected END, got %q", reply.Wire())
	}
	if !strings.Contains(reply.Text, "Expert assigned") {
		t.Errorf("Expected status label, got %q", reply.Text)
	}
}

func TestCollaboratorFailureEndsDialog(t *testing.T) {
	f := newFixture(t)
	f.turn("")
	f.repo.failGetFarmer = true

	reply := f.turn("1")

	if !reply.End {
		t.Fatal("Collaborator failure must end the dialog")
	}
	if !strings.Contains(reply.Text, "something went wrong") {
		t.Errorf("Expected generic error, got %q", reply.Text)
	}
	if f.sessions.Len() != 0 {
		t.Error("Collaborator failure must clear the session")
	}
}

func TestLastToken(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", ""},
		{"1", "1"},
		{"1*2*Jean", "Jean"},
		{"1*2*", ""},
		{" 1 ", "1"},
	}
	for _, c := range cases {
		if got := lastToken(c.text); got != c.want {
			t.Errorf("lastToken(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
