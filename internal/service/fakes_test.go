package service

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"sync"

	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/pkg/certrender"
	"github.com/eventforge/hackathon-api/internal/repository"
)

type fakeEvents struct {
	mu      sync.Mutex
	events  map[uint]domain.Event
	nextID  uint
	updates int
}

func newFakeEvents(events ...domain.Event) *fakeEvents {
	f := &fakeEvents{events: make(map[uint]domain.Event), nextID: 100}
	for _, e := range events {
		f.events[e.ID] = e
	}
	return f
}

func (f *fakeEvents) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEvents) FindByID(_ context.Context, id uint) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEvents) FindAll(_ context.Context, statuses []domain.EventStatus) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Event
	for _, e := range f.events {
		if len(statuses) == 0 || containsStatus(statuses, e.Status) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEvents) FindByOrganizerID(_ context.Context, organizerID uint) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Event
	for _, e := range f.events {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.events)), nil
}

func (f *fakeEvents) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEvents) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func containsStatus(list []domain.EventStatus, st domain.EventStatus) bool {
	for _, s := range list {
		if s == st {
			return true
		}
	}
	return false
}

type fakeTeams struct {
	mu     sync.Mutex
	teams  map[uint]domain.Team
	nextID uint
}

func newFakeTeams(teams ...domain.Team) *fakeTeams {
	f := &fakeTeams{teams: make(map[uint]domain.Team)}
	for _, t := range teams {
		f.teams[t.ID] = t
		if t.ID > f.nextID {
			f.nextID = t.ID
		}
	}
	return f
}

func (f *fakeTeams) Create(_ context.Context, team domain.Team) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	team.ID = f.nextID
	f.teams[team.ID] = team
	return team, nil
}

func (f *fakeTeams) FindByID(_ context.Context, id uint) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return domain.Team{}, repository.ErrTeamNotFound
	}
	return t, nil
}

func (f *fakeTeams) FindByEventID(_ context.Context, eventID uint) ([]domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Team
	for _, t := range f.teams {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTeams) FindByUserID(_ context.Context, userID uint) ([]domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Team
	for _, t := range f.teams {
		if t.HasUser(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeams) FindByEventStatus(_ context.Context, _ domain.EventStatus) ([]domain.Team, error) {
	return nil, nil
}

func (f *fakeTeams) AddMember(_ context.Context, teamID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.teams[teamID]
	t.Members = append(t.Members, domain.User{ID: userID})
	f.teams[teamID] = t
	return nil
}

// fakeCertificates refuses duplicate certificate ids the way the unique index does,
// and records whether each row's artifact already existed when it was inserted.
type fakeCertificates struct {
	mu       sync.Mutex
	certs    []domain.Certificate
	store    *fakeStore
	orphaned int
	batchErr error
}

func (f *fakeCertificates) has(id string) bool {
	for _, c := range f.certs {
		if c.CertificateID != nil && *c.CertificateID == id {
			return true
		}
	}
	return false
}

func (f *fakeCertificates) checkArtifact(c domain.Certificate) {
	if f.store != nil && !f.store.exists(c.CertificateURL) {
		f.orphaned++
	}
}

func (f *fakeCertificates) Create(_ context.Context, cert domain.Certificate) (domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cert.CertificateID != nil && f.has(*cert.CertificateID) {
		return domain.Certificate{}, repository.ErrCertificateExists
	}
	f.checkArtifact(cert)
	cert.ID = uint(len(f.certs) + 1)
	f.certs = append(f.certs, cert)
	return cert, nil
}

func (f *fakeCertificates) CreateBatch(ctx context.Context, certs []domain.Certificate) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.batchErr != nil {
		return 0, f.batchErr
	}
	n := 0
	for _, c := range certs {
		if c.CertificateID != nil && f.has(*c.CertificateID) {
			continue
		}
		f.checkArtifact(c)
		c.ID = uint(len(f.certs) + 1)
		f.certs = append(f.certs, c)
		n++
	}
	return n, nil
}

func (f *fakeCertificates) FindByEventID(_ context.Context, eventID uint) ([]domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Certificate
	for _, c := range f.certs {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCertificates) FindByRecipientEmail(_ context.Context, email string) ([]domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Certificate
	for _, c := range f.certs {
		if c.RecipientEmail == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCertificates) FindByCertificateID(_ context.Context, id string) (domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.certs {
		if c.CertificateID != nil && *c.CertificateID == id {
			return c, nil
		}
	}
	return domain.Certificate{}, repository.ErrCertificateNotFound
}

func (f *fakeCertificates) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.certs)), nil
}

type fakeStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Save(name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "/certificates/" + name
	f.files[url] = data
	return url, nil
}

func (f *fakeStore) Read(url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[url]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (f *fakeStore) Remove(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, url)
	return nil
}

func (f *fakeStore) exists(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[url]
	return ok
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

var errRender = errors.New("render failed")

type fakeRenderer struct {
	failFor map[string]bool
}

func (f *fakeRenderer) Render(_ context.Context, _ *domain.CertificateTemplate, vars certrender.Variables) ([]byte, error) {
	if f.failFor[vars.RecipientName] {
		return nil, errRender
	}
	return []byte(vars.RecipientName + "|" + vars.EventTitle + "|" + vars.Role + "|" + vars.Date), nil
}

func (f *fakeRenderer) Extension() string {
	return "pdf"
}

type fakeUsers struct {
	mu     sync.Mutex
	users  map[string]domain.User
	nextID uint
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]domain.User)}
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUsers) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[domain.Role]int64)
	for _, u := range f.users {
		out[u.Role]++
	}
	return out, nil
}
