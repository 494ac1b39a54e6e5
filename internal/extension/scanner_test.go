package extension

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Scanner.GetUsedExtensions:
// - Empty extension list returns empty result without listing or reading
// - Whole-word match marks an extension used, a longer identifier does not
// - Two extensions sharing a symbol are both reported, each once
// - Non-source files are never read
// - Classes, constants and functions are all checked
// - Listing failure returns ErrList wrapping the cause, no reads
// - Read failure returns ErrRead wrapping the cause and stops before the next file
// - Result keeps first-matched order across files
// - Trailing separators are trimmed before joining
// - Parallel scan returns the same set and fails on read errors
// - Cancelled context aborts the scan
// - Progress reporter receives start, file and completion callbacks
// - A failed scan reports the error to the progress reporter, never completion
// - The parallel scan counts evaluated files, not dispatched ones

const fooContent = `<?php

namespace Tests;

class Foobar
{
    public function foobar(): void
    {
        new Test();

        Test::TEST;

        test();
    }
}
`

func TestGetUsedExtensions_EmptyExtensions(t *testing.T) {
	t.Parallel()

	source := newMockFileSource()
	scanner := NewScanner(source)

	used, err := scanner.GetUsedExtensions(context.Background(), nil, ".")

	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Empty(t, source.listCalls)
	assert.Empty(t, source.reads())
}

func TestGetUsedExtensions_FindsExtension(t *testing.T) {
	t.Parallel()

	ext := New("test", true, []string{"Test"}, []string{"TEST"}, []string{"test"})
	source := newMockFileSource().
		add(".", "Foobar.php", fooContent).
		add(".", "README.md", "test")

	used, err := NewScanner(source).GetUsedExtensions(context.Background(), []*Extension{ext}, ".")

	require.NoError(t, err)
	require.Len(t, used, 1)
	assert.Same(t, ext, used[0])
	assert.Equal(t, []string{"./Foobar.php"}, source.reads())
}

func TestGetUsedExtensions_WholeWordBoundary(t *testing.T) {
	t.Parallel()

	ext := New("ext", false, nil, nil, []string{"test"})

	used, err := NewScanner(newMockFileSource().add("p", "a.php", "test();")).
		GetUsedExtensions(context.Background(), []*Extension{ext}, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"ext"}, Names(used))

	used, err = NewScanner(newMockFileSource().add("p", "a.php", "testing();")).
		GetUsedExtensions(context.Background(), []*Extension{ext}, "p")
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestGetUsedExtensions_SharedSymbolReportedOncePerExtension(t *testing.T) {
	t.Parallel()

	first := New("first", false, nil, nil, []string{"test"})
	second := New("second", false, nil, nil, []string{"test"})
	source := newMockFileSource().
		add("p", "a.php", "test(); test(); test();").
		add("p", "b.php", "test();")

	used, err := NewScanner(source).GetUsedExtensions(context.Background(), []*Extension{first, second}, "p")

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, Names(used))
}

func TestGetUsedExtensions_NonSourceFilesIgnored(t *testing.T) {
	t.Parallel()

	ext := New("ext", false, []string{"CurlHandle"}, nil, nil)
	source := newMockFileSource().
		add("p", "README.md", "new CurlHandle();").
		add("p", "config.phpx", "new CurlHandle();")

	used, err := NewScanner(source).GetUsedExtensions(context.Background(), []*Extension{ext}, "p")

	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Empty(t, source.reads())
}

func TestGetUsedExtensions_EachCategoryMatches(t *testing.T) {
	t.Parallel()

	byClass := New("byClass", false, []string{"Foo"}, nil, nil)
	byConstant := New("byConstant", false, nil, []string{"BAR_CONST"}, nil)
	byFunction := New("byFunction", false, nil, nil, []string{"baz"})
	unused := New("unused", false, []string{"Nope"}, []string{"NOPE"}, []string{"nope"})

	source := newMockFileSource().add("p", "x.php", "new Foo(BAR_CONST); baz();")

	used, err := NewScanner(source).GetUsedExtensions(context.Background(),
		[]*Extension{byClass, byConstant, byFunction, unused}, "p")

	require.NoError(t, err)
	assert.Equal(t, []string{"byClass", "byConstant", "byFunction"}, Names(used))
}

func TestGetUsedExtensions_ListError(t *testing.T) {
	t.Parallel()

	cause := errors.New("nope.")
	source := newMockFileSource()
	source.listErr = cause

	ext := New("test", true, []string{"Test"}, []string{"TEST"}, []string{"test"})
	used, err := NewScanner(source).GetUsedExtensions(context.Background(), []*Extension{ext}, ".")

	require.Error(t, err)
	assert.Nil(t, used)
	assert.True(t, errors.Is(err, ErrList))
	assert.False(t, errors.Is(err, ErrRead))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "nope.", err.Error())
	assert.Empty(t, source.reads())
}

func TestGetUsedExtensions_ReadErrorFailsFast(t *testing.T) {
	t.Parallel()

	source := newMockFileSource().
		add(".", "Foobar.php", fooContent).
		add(".", "Other.php", fooContent)
	source.readErrs["./Foobar.php"] = fs.ErrPermission

	ext := New("test", true, []string{"Test"}, nil, nil)
	used, err := NewScanner(source).GetUsedExtensions(context.Background(), []*Extension{ext}, ".")

	require.Error(t, err)
	assert.Nil(t, used)
	assert.True(t, errors.Is(err, ErrRead))
	assert.True(t, errors.Is(err, fs.ErrPermission))

	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, "./Foobar.php", scanErr.Path)

	assert.Equal(t, []string{"./Foobar.php"}, source.reads(), "second file must not be read")
}

func TestGetUsedExtensions_FirstMatchedOrder(t *testing.T) {
	t.Parallel()

	alpha := New("alpha", false, nil, nil, []string{"alpha_fn"})
	beta := New("beta", false, nil, nil, []string{"beta_fn"})
	source := newMockFileSource().
		add("p", "1.php", "beta_fn();").
		add("p", "2.php", "alpha_fn(); beta_fn();")

	used, err := NewScanner(source).GetUsedExtensions(context.Background(), []*Extension{alpha, beta}, "p")

	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "alpha"}, Names(used))
}

func TestGetUsedExtensions_TrimsTrailingSeparators(t *testing.T) {
	t.Parallel()

	ext := New("ext", false, nil, nil, []string{"test"})
	source := newMockFileSource().add("project", "src/a.php", "test();")

	used, err := NewScanner(source).GetUsedExtensions(context.Background(), []*Extension{ext}, "project///")

	require.NoError(t, err)
	assert.Len(t, used, 1)
	assert.Equal(t, []string{"project"}, source.listCalls)
	assert.Equal(t, []string{"project/src/a.php"}, source.reads())
}

func TestGetUsedExtensions_CustomSuffix(t *testing.T) {
	t.Parallel()

	ext := New("ext", false, nil, nil, []string{"test"})
	source := newMockFileSource().
		add("p", "a.php", "test();").
		add("p", "b.inc", "test();")

	used, err := NewScanner(source, WithSuffix(".inc")).GetUsedExtensions(context.Background(), []*Extension{ext}, "p")

	require.NoError(t, err)
	assert.Len(t, used, 1)
	assert.Equal(t, []string{"p/b.inc"}, source.reads())
}

func TestGetUsedExtensions_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	exts := []*Extension{
		New("curl", false, []string{"CurlHandle"}, nil, []string{"curl_init"}),
		New("json", true, nil, []string{"JSON_THROW_ON_ERROR"}, []string{"json_encode"}),
		New("mbstring", false, nil, nil, []string{"mb_strlen"}),
		New("intl", false, []string{"Collator"}, nil, nil),
	}

	build := func() *mockFileSource {
		return newMockFileSource().
			add("p", "a.php", "curl_init();").
			add("p", "b.php", "json_encode($x, JSON_THROW_ON_ERROR);").
			add("p", "c.php", "new CurlHandle(); mb_strlen($s);").
			add("p", "d.php", "nothing here").
			add("p", "e.txt", "new Collator();")
	}

	sequential, err := NewScanner(build()).GetUsedExtensions(context.Background(), exts, "p")
	require.NoError(t, err)

	parallel, err := NewScanner(build(), WithWorkers(4)).GetUsedExtensions(context.Background(), exts, "p")
	require.NoError(t, err)

	assert.ElementsMatch(t, Names(sequential), Names(parallel))
	assert.Equal(t, []string{"curl", "json", "mbstring"}, Names(Sort(parallel)))
}

func TestGetUsedExtensions_ParallelReadError(t *testing.T) {
	t.Parallel()

	source := newMockFileSource().
		add("p", "a.php", "test();").
		add("p", "b.php", "test();")
	source.readErrs["p/b.php"] = fs.ErrNotExist

	ext := New("ext", false, nil, nil, []string{"test"})
	used, err := NewScanner(source, WithWorkers(2)).GetUsedExtensions(context.Background(), []*Extension{ext}, "p")

	require.Error(t, err)
	assert.Nil(t, used)
	assert.True(t, errors.Is(err, ErrRead))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestGetUsedExtensions_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := newMockFileSource().add("p", "a.php", "test();")
	ext := New("ext", false, nil, nil, []string{"test"})

	_, err := NewScanner(source).GetUsedExtensions(ctx, []*Extension{ext}, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, source.reads())

	_, err = NewScanner(source, WithWorkers(3)).GetUsedExtensions(ctx, []*Extension{ext}, "p")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetUsedExtensions_ReportsProgress(t *testing.T) {
	t.Parallel()

	progress := &recordingProgress{}
	ext := New("ext", false, nil, nil, []string{"test"})
	source := newMockFileSource().
		add("p", "a.php", "test();").
		add("p", "b.php", "test();").
		add("p", "c.md", "test")

	_, err := NewScanner(source, WithProgress(progress)).GetUsedExtensions(context.Background(), []*Extension{ext}, "p/")

	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, progress.started)
	assert.Equal(t, []string{"p/a.php", "p/b.php"}, progress.scanned)
	assert.Equal(t, []string{"ext"}, progress.used)
	assert.Equal(t, 1, progress.complete)
	assert.Equal(t, 2, progress.completedFiles)
	assert.Empty(t, progress.failures)
}

func TestGetUsedExtensions_ReportsFailureToProgress(t *testing.T) {
	t.Parallel()

	ext := New("ext", false, nil, nil, []string{"test"})

	for _, workers := range []int{1, 3} {
		progress := &recordingProgress{}
		source := newMockFileSource().
			add("p", "a.php", "nothing").
			add("p", "b.php", "test();")
		source.readErrs["p/b.php"] = fs.ErrPermission

		_, err := NewScanner(source, WithWorkers(workers), WithProgress(progress)).
			GetUsedExtensions(context.Background(), []*Extension{ext}, "p")

		require.Error(t, err)
		assert.Equal(t, []string{"p"}, progress.started)
		assert.Equal(t, 0, progress.complete, "workers=%d", workers)
		require.Len(t, progress.failures, 1, "workers=%d", workers)
		assert.ErrorIs(t, progress.failures[0], ErrRead)
	}

	progress := &recordingProgress{}
	source := newMockFileSource()
	source.listErr = errors.New("unreadable")

	_, err := NewScanner(source, WithProgress(progress)).
		GetUsedExtensions(context.Background(), []*Extension{ext}, "p")

	require.Error(t, err)
	assert.Equal(t, 0, progress.complete)
	require.Len(t, progress.failures, 1)
	assert.ErrorIs(t, progress.failures[0], ErrList)
}

func TestScanParallel_CountsEvaluatedFiles(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := newMockFileSource()
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		source.add("p", name+".php", "nothing")
	}
	source.onRead = func(string) { cancel() }

	ext := New("ext", false, nil, nil, []string{"test"})
	s := NewScanner(source, WithWorkers(2))

	scanned, err := s.scanParallel(ctx, []*Extension{ext}, "p", newUsedSet(1))

	require.ErrorIs(t, err, context.Canceled)
	reads := source.reads()
	assert.Less(t, len(reads), 10)
	assert.Equal(t, len(reads), scanned, "only files that were read and matched count")
}

func TestGetUsedExtensions_EndToEnd(t *testing.T) {
	t.Parallel()

	core := New("Core", true, nil, nil, []string{"test"})
	curl := New("curl", false, []string{"CurlHandle"}, nil, nil)
	source := newMockFileSource().add("p", "index.php", "new Test(); test();")

	exts := Sort([]*Extension{core, curl})
	used, err := NewScanner(source).GetUsedExtensions(context.Background(), exts, "p")

	require.NoError(t, err)
	assert.Equal(t, []string{"Core"}, Names(Sort(used)))
}

func TestTrimAndJoinPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "p", TrimPath("p/"))
	assert.Equal(t, "/", TrimPath("/"))
	assert.Equal(t, "/var/www", TrimPath("/var/www//"))
	assert.Equal(t, ".", TrimPath("."))

	assert.Equal(t, "p/a.php", JoinPath("p", "a.php"))
	assert.Equal(t, "/a.php", JoinPath("/", "a.php"))
}

func TestScanError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := NewCatalogueError(cause)

	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, ErrCatalogue)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrList)

	bare := &ScanError{Kind: ErrRead}
	assert.Equal(t, "read error", bare.Error())
}
