package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-journal-keeper/internal/store"
	"github.com/MKhiriev/go-journal-keeper/models"
)

var (
	testCreatedAt = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	testUpdatedAt = time.Date(2026, time.March, 2, 11, 30, 0, 0, time.UTC)
)

type fakeEntryRepo struct {
	mu sync.Mutex

	list []models.Entry

	upserts   []models.Entry
	upsertErr error

	positions   map[string]models.CoverPosition
	positionErr error

	deletedIDs []string
	deleteErr  error

	favorites    map[string]bool
	visibilities map[string]models.Visibility
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{
		positions:    make(map[string]models.CoverPosition),
		favorites:    make(map[string]bool),
		visibilities: make(map[string]models.Visibility),
	}
}

func (f *fakeEntryRepo) UpsertEntry(_ context.Context, entry models.Entry) (models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return models.Entry{}, f.upsertErr
	}
	f.upserts = append(f.upserts, entry)
	entry.CreatedAt, entry.UpdatedAt = &testCreatedAt, &testUpdatedAt
	return entry, nil
}

func (f *fakeEntryRepo) GetEntry(_ context.Context, userID, entryID string) (models.Entry, error) {
	for _, entry := range f.list {
		if entry.UserID == userID && entry.ID == entryID {
			return entry, nil
		}
	}
	return models.Entry{}, store.ErrEntryNotFound
}

func (f *fakeEntryRepo) GetEntries(_ context.Context, userID string) ([]models.Entry, error) {
	var entries []models.Entry
	for _, entry := range f.list {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (f *fakeEntryRepo) DeleteEntry(_ context.Context, _, entryID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, entryID)
	return nil
}

func (f *fakeEntryRepo) UpdateCoverPosition(_ context.Context, _, entryID string, position models.CoverPosition) error {
	if f.positionErr != nil {
		return f.positionErr
	}
	f.positions[entryID] = position
	return nil
}

func (f *fakeEntryRepo) SetFavorite(_ context.Context, userID, entryID string, favorite bool) error {
	if _, err := f.GetEntry(context.Background(), userID, entryID); err != nil {
		return err
	}
	f.favorites[entryID] = favorite
	return nil
}

func (f *fakeEntryRepo) SetVisibility(_ context.Context, userID, entryID string, visibility models.Visibility) error {
	if _, err := f.GetEntry(context.Background(), userID, entryID); err != nil {
		return err
	}
	f.visibilities[entryID] = visibility
	return nil
}

type fakeTagRepo struct {
	mu sync.Mutex

	catalogue map[string]models.Tag
	nextID    int64

	entryTags map[string][]int64

	findErr   error
	createErr error

	created  []string
	inserted []int64
	deleted  []int64
	ops      []string
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		catalogue: make(map[string]models.Tag),
		nextID:    1,
		entryTags: make(map[string][]int64),
	}
}

func (f *fakeTagRepo) addTag(userID, name string) models.Tag {
	tag := models.Tag{ID: f.nextID, UserID: userID, Name: name}
	f.nextID++
	f.catalogue[models.NormalizeTagName(name)] = tag
	return tag
}

func (f *fakeTagRepo) FindTagsByNames(_ context.Context, _ string, normalizedNames []string) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}
	var tags []models.Tag
	for _, name := range normalizedNames {
		if tag, ok := f.catalogue[name]; ok {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (f *fakeTagRepo) CreateTags(_ context.Context, userID string, names []string) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	var tags []models.Tag
	for _, name := range names {
		f.created = append(f.created, name)
		tags = append(tags, f.addTag(userID, name))
	}
	return tags, nil
}

func (f *fakeTagRepo) GetEntryTagIDs(_ context.Context, entryID string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entryTags[entryID], nil
}

func (f *fakeTagRepo) TagNamesByEntryIDs(_ context.Context, entryIDs []string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make(map[string][]string)
	for _, entryID := range entryIDs {
		for _, tagID := range f.entryTags[entryID] {
			for _, tag := range f.catalogue {
				if tag.ID == tagID {
					names[entryID] = append(names[entryID], tag.Name)
				}
			}
		}
	}
	return names, nil
}

func (f *fakeTagRepo) InsertEntryTags(_ context.Context, entryID string, tagIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(tagIDs) == 0 {
		return nil
	}
	f.ops = append(f.ops, "insert")
	f.inserted = append(f.inserted, tagIDs...)
	f.entryTags[entryID] = append(f.entryTags[entryID], tagIDs...)
	return nil
}

func (f *fakeTagRepo) DeleteEntryTags(_ context.Context, _ string, tagIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(tagIDs) == 0 {
		return nil
	}
	f.ops = append(f.ops, "delete")
	f.deleted = append(f.deleted, tagIDs...)
	return nil
}

func (f *fakeTagRepo) DeleteAllEntryTags(_ context.Context, entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ops = append(f.ops, "delete all")
	delete(f.entryTags, entryID)
	return nil
}

type fakeImageRepo struct {
	mu sync.Mutex

	entryImages map[string][]string

	inserted []string
	deleted  []string
	ops      []string

	deleteAllErr error
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{entryImages: make(map[string][]string)}
}

func (f *fakeImageRepo) GetEntryImageURLs(_ context.Context, entryID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entryImages[entryID], nil
}

func (f *fakeImageRepo) ImageURLsByEntryIDs(_ context.Context, entryIDs []string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	urls := make(map[string][]string)
	for _, entryID := range entryIDs {
		if imgs, ok := f.entryImages[entryID]; ok {
			urls[entryID] = imgs
		}
	}
	return urls, nil
}

func (f *fakeImageRepo) InsertEntryImages(_ context.Context, _, entryID string, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(urls) == 0 {
		return nil
	}
	f.ops = append(f.ops, "insert")
	f.inserted = append(f.inserted, urls...)
	f.entryImages[entryID] = append(f.entryImages[entryID], urls...)
	return nil
}

func (f *fakeImageRepo) DeleteEntryImages(_ context.Context, _ string, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(urls) == 0 {
		return nil
	}
	f.ops = append(f.ops, "delete")
	f.deleted = append(f.deleted, urls...)
	return nil
}

func (f *fakeImageRepo) DeleteAllEntryImages(_ context.Context, entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteAllErr != nil {
		return f.deleteAllErr
	}
	f.ops = append(f.ops, "delete all")
	delete(f.entryImages, entryID)
	return nil
}

type fakeOverlay struct {
	mu sync.Mutex

	positions map[string]models.CoverPosition
	deleted   []string

	setErr error
	getErr error
}

func newFakeOverlay() *fakeOverlay {
	return &fakeOverlay{positions: make(map[string]models.CoverPosition)}
}

func (f *fakeOverlay) SetCoverPosition(_ context.Context, entryID string, position models.CoverPosition) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}
	f.positions[entryID] = position
	return nil
}

func (f *fakeOverlay) GetCoverPosition(_ context.Context, entryID string) (models.CoverPosition, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return models.CoverPosition{}, false, f.getErr
	}
	position, found := f.positions[entryID]
	return position, found, nil
}

func (f *fakeOverlay) DeleteCoverPosition(_ context.Context, entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, entryID)
	delete(f.positions, entryID)
	return nil
}

const fakeBlobBaseURL = "https://blob.test"

type uploadCall struct {
	bucket      string
	path        string
	data        []byte
	contentType string
}

type removeCall struct {
	bucket string
	paths  []string
}

type fakeBlobStore struct {
	mu sync.Mutex

	uploads []uploadCall
	removes []removeCall

	uploadErr error
	removeErr error
}

func (f *fakeBlobStore) Upload(_ context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, uploadCall{bucket: bucket, path: path, data: data, contentType: contentType})
	return f.PublicURL(bucket, path), nil
}

func (f *fakeBlobStore) Remove(_ context.Context, bucket string, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.removeErr != nil {
		return f.removeErr
	}
	f.removes = append(f.removes, removeCall{bucket: bucket, paths: paths})
	return nil
}

func (f *fakeBlobStore) List(_ context.Context, _ string) error { return nil }

func (f *fakeBlobStore) PublicURL(bucket, path string) string {
	return fakeBlobBaseURL + "/storage/v1/object/public/" + bucket + "/" + path
}

func (f *fakeBlobStore) ParsePublicURL(rawURL string) (string, string, bool) {
	rest, found := strings.CutPrefix(rawURL, fakeBlobBaseURL+"/storage/v1/object/public/")
	if !found {
		return "", "", false
	}
	bucket, path, found := strings.Cut(rest, "/")
	if !found || bucket == "" || path == "" {
		return "", "", false
	}
	return bucket, path, true
}
