package manager

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/c360studio/semonto/codegen"
	"github.com/c360studio/semonto/export"
	"github.com/c360studio/semonto/ontology"
	sourceparser "github.com/c360studio/semonto/source/parser"
	"github.com/c360studio/semonto/storage"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "http://example.org/home#"

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// nt renders N-Triples declaring classes; each class may name parents.
func nt(classes map[string][]string) string {
	var b strings.Builder
	for local, parents := range classes {
		fmt.Fprintf(&b, "<%s%s> <%s> <%s> .\n", ns, local, owl.RDFType, owl.Class)
		for _, p := range parents {
			fmt.Fprintf(&b, "<%s%s> <%s> <%s%s> .\n", ns, local, owl.RDFSSubClassOf, ns, p)
		}
	}
	return b.String()
}

func labelled(local, label string) string {
	return fmt.Sprintf("<%s%s> <%s> <%s> .\n<%s%s> <%s> %q .\n",
		ns, local, owl.RDFType, owl.Class, ns, local, owl.RDFSLabel, label)
}

func newManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m := New(append([]Option{WithLogger(quiet)}, opts...)...)
	require.NoError(t, m.CreateVocabulary("home"))
	return m
}

func TestCreateVocabulary(t *testing.T) {
	m := newManager(t)

	v, err := m.Vocabulary("home")
	require.NoError(t, err)
	assert.Contains(t, v.Classes, owl.Thing)
	assert.Equal(t, []string{"home"}, m.Vocabularies())

	assert.ErrorIs(t, m.CreateVocabulary("home"), ErrVocabularyExists)

	_, err = m.Vocabulary("garden")
	assert.ErrorIs(t, err, ErrVocabularyNotFound)
	_, err = m.AddSource(context.Background(), "garden", "a.nt", "", "")
	assert.ErrorIs(t, err, ErrVocabularyNotFound)
}

func TestAddSource(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	src, err := m.AddSource(ctx, "home", "devices.nt", nt(map[string][]string{"Device": nil, "Sensor": {"Device"}}), "")
	require.NoError(t, err)
	assert.Equal(t, "devices.nt", src.Name)

	v, err := m.Vocabulary("home")
	require.NoError(t, err)
	require.Contains(t, v.Classes, ns+"Sensor")
	assert.Equal(t, []string{ns + "Device"}, v.Classes[ns+"Sensor"].Parents)

	var buf bytes.Buffer
	require.NoError(t, m.Generate("home", &buf))
	assert.Contains(t, buf.String(), "type Sensor struct")
}

func TestAddSourceRejectsUnparseableDocument(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	_, err := m.AddSource(ctx, "home", "devices.nt", nt(map[string][]string{"Device": nil}), "")
	require.NoError(t, err)

	_, err = m.AddSource(ctx, "home", "broken.nt", "this is not a triple", "")
	require.ErrorIs(t, err, sourceparser.ErrUnparseable)

	sources, err := m.Sources("home")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "devices.nt", sources[0].Name)
}

func TestReplaceSourceKeepsID(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	first, err := m.AddSource(ctx, "home", "devices.nt", nt(map[string][]string{"Device": nil}), "")
	require.NoError(t, err)
	second, err := m.AddSource(ctx, "home", "devices.nt", nt(map[string][]string{"Lamp": nil}), "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	v, err := m.Vocabulary("home")
	require.NoError(t, err)
	assert.NotContains(t, v.Classes, ns+"Device")
	assert.Contains(t, v.Classes, ns+"Lamp")
}

func TestDeleteSource(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	src, err := m.AddSource(ctx, "home", "devices.nt", nt(map[string][]string{"Device": nil}), "")
	require.NoError(t, err)

	require.NoError(t, m.DeleteSource(ctx, "home", src.ID))
	v, err := m.Vocabulary("home")
	require.NoError(t, err)
	assert.NotContains(t, v.Classes, ns+"Device")

	assert.ErrorIs(t, m.DeleteSource(ctx, "home", src.ID), ErrSourceNotFound)
}

func TestDependencyReinstatedWhenSourceArrives(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.AddSource(ctx, "home", "sensors.nt", nt(map[string][]string{"Sensor": {"Device"}}), "")
	require.NoError(t, err)

	report, err := m.Validate("home")
	require.NoError(t, err)
	assert.Equal(t, []ontology.DependencyStatement{
		{Type: ontology.DependencyParentClass, Owner: ns + "Sensor", Dependency: ns + "Device"},
	}, report.Unfulfilled())
	assert.Equal(t, 1, report.CountLog(ontology.LogWarning))

	_, err = m.AddSource(ctx, "home", "devices.nt", nt(map[string][]string{"Device": nil}), "")
	require.NoError(t, err)

	report, err = m.Validate("home")
	require.NoError(t, err)
	assert.Empty(t, report.Unfulfilled())
	sensors, err := m.FindSource("home", "sensors.nt")
	require.NoError(t, err)
	require.Len(t, sensors.Dependencies, 1)
	assert.True(t, sensors.Dependencies[0].Fulfilled)

	v, err := m.Vocabulary("home")
	require.NoError(t, err)
	assert.Equal(t, []string{ns + "Device"}, v.Classes[ns+"Sensor"].Parents)
}

func TestSettingsSurviveRebuilds(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.AddSource(ctx, "home", "rooms.nt", nt(map[string][]string{"Room": nil}), "")
	require.NoError(t, err)
	require.NoError(t, m.SetLabel(ctx, "home", ns+"Room", "Chamber"))
	require.NoError(t, m.SetDevice(ctx, "home", ns+"Room", true))

	_, err = m.AddSource(ctx, "home", "garden.nt", nt(map[string][]string{"Garden": nil}), "")
	require.NoError(t, err)
	_, err = m.Rebuild(ctx, "home")
	require.NoError(t, err)

	v, err := m.Vocabulary("home")
	require.NoError(t, err)
	room := v.Classes[ns+"Room"]
	assert.Equal(t, "Chamber", room.GetLabel())
	assert.True(t, room.IsDevice)

	require.NoError(t, m.SetLabel(ctx, "home", ns+"Room", ""))
	require.NoError(t, m.SetDevice(ctx, "home", ns+"Room", false))
	v, err = m.Vocabulary("home")
	require.NoError(t, err)
	assert.Equal(t, "Room", v.Classes[ns+"Room"].GetLabel())
	assert.False(t, v.Classes[ns+"Room"].IsDevice)
}

func TestSettingsRejectUnknownTargets(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	_, err := m.AddSource(ctx, "home", "rooms.nt", nt(map[string][]string{"Room": nil}), "")
	require.NoError(t, err)

	tests := []struct {
		name string
		err  error
	}{
		{"label", m.SetLabel(ctx, "home", ns+"Missing", "x")},
		{"field type on class", m.SetFieldType(ctx, "home", ns+"Room", ontology.FieldCommand)},
		{"device", m.SetDevice(ctx, "home", ns+"Missing", true)},
		{"agent", m.SetAgent(ctx, "home", ns+"Missing", true)},
		{"key information", m.SetKeyInformation(ctx, "home", "no-such-id", true)},
		{"inspect", m.SetInspect(ctx, "home", "no-such-id", true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, ErrEntityNotFound)
		})
	}
}

func TestValidateMarksConflicts(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	_, err := m.AddSource(ctx, "home", "rooms.nt", labelled("Room", "Space")+labelled("Hall", "Space"), "")
	require.NoError(t, err)

	report, err := m.Validate("home")
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.True(t, report.HasConflicts())
	assert.ElementsMatch(t, []string{ns + "Room", ns + "Hall"}, report.Conflicts[ontology.NamespaceClasses]["Space"])

	err = m.Generate("home", io.Discard)
	assert.ErrorIs(t, err, codegen.ErrInvalidVocabulary)

	// Resolving the conflict with a user label makes the vocabulary valid.
	require.NoError(t, m.SetLabel(ctx, "home", ns+"Hall", "Hall"))
	report, err = m.Validate("home")
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.NoError(t, m.Generate("home", io.Discard))
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	inputs := []SourceInput{
		{Name: "devices.nt", Content: nt(map[string][]string{"Device": nil})},
		{Name: "rooms.nt", Content: nt(map[string][]string{"Room": nil})},
	}
	first, err := m.Sync(ctx, "home", inputs)
	require.NoError(t, err)
	assert.Contains(t, first.Classes, ns+"Device")
	devices, err := m.FindSource("home", "devices.nt")
	require.NoError(t, err)

	again, err := m.Sync(ctx, "home", inputs)
	require.NoError(t, err)
	assert.Same(t, first, again, "unchanged inputs do not rebuild")

	changed, err := m.Sync(ctx, "home", []SourceInput{
		{Name: "devices.nt", Content: nt(map[string][]string{"Lamp": nil})},
	})
	require.NoError(t, err)
	assert.Contains(t, changed.Classes, ns+"Lamp")
	assert.NotContains(t, changed.Classes, ns+"Room")

	sources, err := m.Sources("home")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, devices.ID, sources[0].ID)
}

func TestRestoreFromStore(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	m := newManager(t, WithStore(store))
	_, err = m.AddSource(ctx, "home", "rooms.nt", nt(map[string][]string{"Room": nil}), "")
	require.NoError(t, err)
	garden, err := m.AddSource(ctx, "home", "garden.nt", nt(map[string][]string{"Garden": nil}), "")
	require.NoError(t, err)
	require.NoError(t, m.SetLabel(ctx, "home", ns+"Room", "Chamber"))
	require.NoError(t, m.DeleteSource(ctx, "home", garden.ID))

	restored := New(WithLogger(quiet), WithStore(store))
	v, err := restored.Restore(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Chamber", v.Classes[ns+"Room"].GetLabel())
	assert.NotContains(t, v.Classes, ns+"Garden")

	_, err = restored.Restore(ctx, "home")
	assert.ErrorIs(t, err, ErrVocabularyExists)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	_, err := m.AddSource(ctx, "home", "rooms.nt", nt(map[string][]string{"Room": nil}), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Export("home", export.FormatNTriples, export.ProfileMinimal, &buf))
	assert.Contains(t, buf.String(), fmt.Sprintf("<%sRoom> <%s> <%s> .", ns, owl.RDFType, owl.Class))

	err = m.Export("home", export.Format("rdfxml"), export.ProfileMinimal, io.Discard)
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestCancelledBuildLeavesVocabularyUnchanged(t *testing.T) {
	m := newManager(t)
	before, err := m.Vocabulary("home")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.AddSource(ctx, "home", "rooms.nt", nt(map[string][]string{"Room": nil}), "")
	require.ErrorIs(t, err, context.Canceled)

	after, err := m.Vocabulary("home")
	require.NoError(t, err)
	assert.Same(t, before, after)
}
