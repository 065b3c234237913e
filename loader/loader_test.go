package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/wardround/engine"
	"github.com/nathoo/wardround/engine/crafting"
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

func writeCase(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestLoad_Minimal(t *testing.T) {
	lib, err := Load("testdata/minimal")
	require.NoError(t, err)

	require.Contains(t, lib.Cases, "minimal")
	c := lib.Cases["minimal"]
	assert.Equal(t, "Minimal Case", c.Title)
	assert.Equal(t, types.DifficultyEasy, c.Difficulty, "empty difficulty defaults to Easy")
	assert.Equal(t, "bay", c.StartNodeID)
	assert.True(t, c.Nodes["bay"].IsTerminal)
	assert.Empty(t, lib.Recipes)
	assert.Empty(t, lib.Warnings)
}

func TestLoad_Full(t *testing.T) {
	lib, err := Load("testdata/full")
	require.NoError(t, err)

	assert.Equal(t, []string{"sepsis", "minor"}, lib.Order, "files load alphabetically")
	require.Len(t, lib.Recipes, 1)
	assert.Equal(t, "sling", lib.Recipes[0].ID)

	c := lib.Cases["sepsis"]
	assert.Equal(t, types.DifficultyHard, c.Difficulty)
	assert.Equal(t, 5, c.InitialState.TimeElapsed)
	assert.Equal(t, 39.4, c.InitialState.Vitals[types.VitalTemperature])
	assert.Equal(t, []string{"FROM_CARE_HOME"}, c.InitialState.Flags)
	assert.Equal(t, []string{"blood_culture_bottle", "blood_culture_bottle"}, c.InitialState.Inventory)
	assert.Equal(t, 2, c.InitialState.Relationships["nurse_kim"]["professional"])
	assert.Equal(t, -1, c.InitialState.Relationships["nurse_kim"]["personal"])
	assert.Equal(t, 3, c.InitialState.Relationships["daughter"][types.DefaultDimension])

	bay := c.Nodes["bay"]
	require.Len(t, bay.OnEnter, 2)
	assert.Equal(t, types.Note{Description: "Sepsis screen triggered."}, bay.OnEnter[0])
	require.Len(t, bay.Choices, 2)
	assert.Equal(t, "cultures", bay.Choices[0].ID, "choices keep authored order")
	assert.Equal(t, "antibiotics", bay.Choices[1].ID)
}

func TestLoad_PlaysThroughEngine(t *testing.T) {
	lib, err := Load("testdata/full")
	require.NoError(t, err)

	e := engine.New(lib.Cases["sepsis"], engine.WithRecipes(crafting.NewBook(lib.Recipes)))
	s := e.State()
	assert.True(t, state.HasFlag(s, "SCREENED"), "start node on_enter applied")

	r := e.MakeChoice("cultures")
	require.True(t, r.Success, r.Message)
	assert.Equal(t, 1, state.CountItem(s, "blood_culture_bottle"))
	assert.Equal(t, 3, state.Relationship(s, "nurse_kim", "professional"))
	assert.Equal(t, 10.0, s.Stress)
	assert.Equal(t, 15, s.TimeElapsed)
	assert.Equal(t, "fluids", e.NodeID())

	r = e.MakeChoice("bolus")
	require.True(t, r.Success, r.Message)
	assert.True(t, e.IsTerminal())
}

func TestLoad_BundledCases(t *testing.T) {
	lib, err := Load("../cases")
	require.NoError(t, err)
	assert.Len(t, lib.Cases, 4)
	assert.NotEmpty(t, lib.Recipes)
	assert.Empty(t, lib.Warnings)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name: "missing start node",
			src: `Case "x" { title = "X", start = "nowhere",
				nodes = { bay = { text = "t", terminal = true } } }`,
			wantErr: `start node "nowhere" not found`,
		},
		{
			name: "dangling next",
			src: `Case "x" { title = "X", start = "bay", nodes = {
				bay = { text = "t", choices = { Choice "go" { text = "Go", next = "void" } } } } }`,
			wantErr: `next points to undefined node "void"`,
		},
		{
			name: "unknown vital in effect",
			src: `Case "x" { title = "X", start = "bay", nodes = {
				bay = { text = "t", terminal = true, on_enter = { SetVital("glucose", 4) } } } }`,
			wantErr: `unknown vital "glucose"`,
		},
		{
			name: "unknown initial vital",
			src: `Case "x" { title = "X", start = "bay", vitals = { bp = 120 },
				nodes = { bay = { text = "t", terminal = true } } }`,
			wantErr: `unknown vital "bp"`,
		},
		{
			name: "duplicate choice id",
			src: `Case "x" { title = "X", start = "bay", nodes = {
				bay = { text = "t", choices = {
					Choice "a" { text = "A" }, Choice "a" { text = "Again" } } } } }`,
			wantErr: `duplicate choice ID "a"`,
		},
		{
			name: "unknown difficulty",
			src: `Case "x" { title = "X", difficulty = "Nightmare", start = "bay",
				nodes = { bay = { text = "t", terminal = true } } }`,
			wantErr: `unknown difficulty "Nightmare"`,
		},
		{
			name:    "missing title",
			src:     `Case "x" { start = "bay", nodes = { bay = { text = "t", terminal = true } } }`,
			wantErr: "title is required",
		},
		{
			name: "unknown category",
			src: `Case "x" { title = "X", start = "bay", nodes = {
				bay = { text = "t", choices = { Choice "a" { text = "A", category = "magic" } } } } }`,
			wantErr: `unknown category "magic"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCase(t, dir, "case.lua", tt.src)

			_, err := Load(dir)
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "case.lua", `Case "x" { title = "X", start = "bay", nodes = {
		bay = { text = "t", choices = {
			Choice "make" { text = "Make", effects = { Craft("rocket") }, next = "stuck" } } },
		stuck = { text = "no way out" },
		orphan = { text = "never visited", terminal = true },
	} }`)

	lib, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, lib.Warnings, 3)
	assert.Contains(t, lib.Warnings[0], `unknown recipe "rocket"`)
	assert.Contains(t, lib.Warnings[1], `node "stuck" is a dead end`)
	assert.Contains(t, lib.Warnings[2], `node "orphan" is unreachable`)
}

func TestLoad_NoLuaFiles(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "no .lua files")
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_LuaError(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "bad.lua", `Case "x" {`)
	_, err := Load(dir)
	assert.ErrorContains(t, err, "executing bad.lua")
}

func TestLoad_Sandbox(t *testing.T) {
	for _, fn := range []string{"dofile", "loadstring", "math.random"} {
		dir := t.TempDir()
		writeCase(t, dir, "case.lua", fn+`("x")`)
		_, err := Load(dir)
		assert.Error(t, err, "%s should be unavailable", fn)
	}
}

func TestLoad_BadRecipes(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "case.lua", `Case "x" { title = "X", start = "bay", nodes = { bay = { text = "t", terminal = true } } }`)
	writeCase(t, dir, RecipeFile, "recipes:\n  - id: sling\n")
	_, err := Load(dir)
	assert.ErrorContains(t, err, `recipe "sling": result is required`)
}
