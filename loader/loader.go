package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/wardround/types"
)

// RecipeFile is the optional recipe table loaded alongside the cases.
const RecipeFile = "recipes.yaml"

// safeLibs are the only Lua standard libraries case files can reach.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals are removed after the safe libraries are opened.
var blockedGlobals = []string{
	"dofile", "loadfile", "load", "loadstring",
	"rawset", "rawget", "rawequal",
	"collectgarbage",
}

// collector accumulates Case definitions in the order files declare them.
type collector struct {
	cases []rawCase
	order int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load executes every .lua file in dir in name order, compiles the
// declared cases, attaches recipes.yaml if present, and validates the
// result. The VM is closed before Load returns.
func Load(dir string) (*types.Library, error) {
	files, err := caseFiles(dir)
	if err != nil {
		return nil, err
	}

	L, coll := newVM()
	defer L.Close()

	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", filepath.Base(path), err)
		}
	}

	lib, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling cases: %w", err)
	}

	recipes, err := LoadRecipes(filepath.Join(dir, RecipeFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		lib.Recipes = recipes
	}

	if err := validate(lib); err != nil {
		return nil, err
	}
	return lib, nil
}

// caseFiles lists the .lua files directly inside dir, sorted by name.
func caseFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading case directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reading case directory %s: not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, fmt.Errorf("reading case directory %s: %w", dir, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// newVM returns a sandboxed Lua state with the authoring API registered
// against a fresh collector.
func newVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	// Case content must load the same way every time.
	if math, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		math.RawSetString("random", lua.LNil)
		math.RawSetString("randomseed", lua.LNil)
	}

	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}
