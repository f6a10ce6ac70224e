package seed

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/config"
	"github.com/spec-kit/ghostname-service/internal/domain"
	"github.com/spec-kit/ghostname-service/internal/persistence"
	"github.com/spec-kit/ghostname-service/internal/repository"
)

const inventoryJSON = `[
  {"name": "Casper", "description": "friendly"},
  {"name": "  Slimer ", "description": "green "},
  {"name": "", "description": "nameless"}
]`

const inventoryYAML = `
- name: Casper
  description: friendly
- name: Boo
  description: shy
`

func TestDecode(t *testing.T) {
	entries, err := Decode("ghosts.json", strings.NewReader(inventoryJSON))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Casper", entries[0].Name)

	entries, err = Decode("ghosts.YML", strings.NewReader(inventoryYAML))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "Casper", Description: "friendly"}, {Name: "Boo", Description: "shy"}}, entries)

	_, err = Decode("ghosts.csv", strings.NewReader(""))
	assert.Error(t, err)

	_, err = Decode("ghosts.json", strings.NewReader("{"))
	assert.Error(t, err)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://inventory/seed/ghosts.yaml")
	require.NoError(t, err)
	assert.Equal(t, "inventory", bucket)
	assert.Equal(t, "seed/ghosts.yaml", key)

	for _, bad := range []string{"inventory/ghosts.json", "s3://inventory", "s3:///ghosts.json"} {
		_, _, err := ParseS3URL(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenSource_LocalFile(t *testing.T) {
	src, err := OpenSource(context.Background(), config.SeedConfig{}, "data/ghosts.json")
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "data/ghosts.json"}, src)

	_, err = OpenSource(context.Background(), config.SeedConfig{}, "")
	assert.Error(t, err)
}

type fakeObjects struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source_Entries(t *testing.T) {
	objects := &fakeObjects{body: inventoryYAML}
	src := &S3Source{Bucket: "inventory", Key: "ghosts.yaml", client: objects}

	entries, err := src.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "inventory", *objects.input.Bucket)
	assert.Equal(t, "ghosts.yaml", *objects.input.Key)

	objects.err = errors.New("access denied")
	_, err = src.Entries(context.Background())
	assert.ErrorContains(t, err, "s3://inventory/ghosts.yaml")
}

type recordingInserter struct {
	batches []int
	seen    map[string]bool
}

func (r *recordingInserter) InsertGhostNames(_ context.Context, names []*domain.GhostName) (int, error) {
	if r.seen == nil {
		r.seen = map[string]bool{}
	}
	r.batches = append(r.batches, len(names))
	n := 0
	for _, g := range names {
		if !r.seen[g.Name] {
			r.seen[g.Name] = true
			n++
		}
	}
	return n, nil
}

type staticSource []Entry

func (s staticSource) Entries(context.Context) ([]Entry, error) { return s, nil }

func TestLoader_Batches(t *testing.T) {
	var src staticSource
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		src = append(src, Entry{Name: n})
	}
	ins := &recordingInserter{}

	res, err := NewLoader(ins, zap.NewNop(), 2).Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, ins.batches)
	assert.Equal(t, Result{Read: 5, Inserted: 5}, res)
}

func TestLoader_DefaultBatchSize(t *testing.T) {
	l := NewLoader(&recordingInserter{}, nil, 0)
	assert.Equal(t, DefaultBatchSize, l.batchSize)
}

func TestLoader_SeedsStoreOnce(t *testing.T) {
	dir := t.TempDir()
	db, err := persistence.OpenSQLite(filepath.Join(dir, "ghosts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, persistence.RunMigrations(context.Background(), db, config.DriverSQLite, zap.NewNop()))
	store := repository.NewStore(db)

	file := filepath.Join(dir, "ghosts.json")
	require.NoError(t, os.WriteFile(file, []byte(inventoryJSON), 0o600))

	loader := NewLoader(store, zap.NewNop(), 500)
	res, err := loader.Load(context.Background(), FileSource{Path: file})
	require.NoError(t, err)
	assert.Equal(t, Result{Read: 3, Inserted: 2, Skipped: 1}, res)

	res, err = loader.Load(context.Background(), FileSource{Path: file})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted, "rerun keeps existing names")

	g, err := store.Ghosts().GetByUniqueID(context.Background(), mustUniqueID(t, store, "Slimer"))
	require.NoError(t, err)
	assert.Equal(t, "green", g.Description)
	assert.Equal(t, domain.ClaimFree, g.Claim.Kind())
}

func mustUniqueID(t *testing.T, store *repository.Store, name string) string {
	t.Helper()
	free, err := store.Ghosts().ListClaimable(context.Background(), time.Now(), 10)
	require.NoError(t, err)
	for _, g := range free {
		if g.Name == name {
			return g.UniqueID
		}
	}
	t.Fatalf("ghost %q not seeded", name)
	return ""
}
