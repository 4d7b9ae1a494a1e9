package desktop

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/geometry"
	"github.com/1broseidon/progman/internal/tiling"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	opts := DefaultOptions()
	opts.SessionID = "test-session"
	return NewStore(apps.Builtin(), opts)
}

func launch(t *testing.T, s *Store, appID string) string {
	t.Helper()
	id, err := s.Launch(appID, LaunchOptions{})
	require.NoError(t, err)
	return id
}

func mustWindow(t *testing.T, s *Store, id string) Window {
	t.Helper()
	w, ok := s.Window(id)
	require.True(t, ok, "window %s should exist", id)
	return w
}

// assertSingleActive checks that the active flag and ActiveID agree.
func assertSingleActive(t *testing.T, s *Store) {
	t.Helper()
	active := s.ActiveID()
	count := 0
	for _, w := range s.Windows() {
		if w.Active {
			count++
			assert.Equal(t, active, w.ID)
			assert.NotEqual(t, StateMinimized, w.State)
		}
	}
	if active == "" {
		assert.Zero(t, count)
	} else {
		assert.Equal(t, 1, count)
	}
}

func TestLaunch_TwiceGivesDistinctCascadedWindows(t *testing.T) {
	s := newTestStore(t)

	first := launch(t, s, "notepad")
	second := launch(t, s, "notepad")
	require.NotEqual(t, first, second)
	assert.Equal(t, "notepad-1", first)
	assert.Equal(t, "notepad-2", second)

	a := mustWindow(t, s, first)
	b := mustWindow(t, s, second)
	assert.Equal(t, geometry.Point{X: 50, Y: 30}, a.Position)
	assert.Equal(t, a.Position.Add(geometry.Point{X: 30, Y: 30}), b.Position)
	assert.Equal(t, geometry.Size{Width: 500, Height: 400}, b.Size)
	assert.Equal(t, "Notepad", b.Title)

	assert.False(t, a.Active)
	assert.True(t, b.Active)
	assert.Greater(t, b.ZOrder, a.ZOrder)
	assert.Equal(t, second, s.ActiveID())
	assertSingleActive(t, s)
}

func TestLaunch_UnknownAppCreatesNothing(t *testing.T) {
	s := newTestStore(t)
	launch(t, s, "clock")

	_, err := s.Launch("paintbrush", LaunchOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAppNotFound))
	assert.Contains(t, err.Error(), "paintbrush")
	assert.Len(t, s.Windows(), 1)
}

func TestLaunch_IDsNeverReused(t *testing.T) {
	s := newTestStore(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := launch(t, s, "clock")
		require.False(t, seen[id], "id %s reused", id)
		seen[id] = true
		if i%3 == 0 {
			s.Close(id)
		}
		if i == 10 {
			s.CloseAll()
		}
	}
}

func TestLaunch_PositionWrapsAfterTenVisible(t *testing.T) {
	s := newTestStore(t)
	var ids []string
	for i := 0; i < 11; i++ {
		ids = append(ids, launch(t, s, "clock"))
	}
	assert.Equal(t, geometry.Point{X: 50 + 9*30, Y: 30 + 9*30}, mustWindow(t, s, ids[9]).Position)
	assert.Equal(t, geometry.Point{X: 50, Y: 30}, mustWindow(t, s, ids[10]).Position)

	// Minimized windows do not count toward the stagger.
	s.Minimize(ids[10])
	next := launch(t, s, "clock")
	assert.Equal(t, geometry.Point{X: 50, Y: 30}, mustWindow(t, s, next).Position)
}

func TestLaunch_Overrides(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Launch("notepad", LaunchOptions{
		Title:    "README.TXT - Notepad",
		Position: &geometry.Point{X: -10, Y: 5},
		Size:     &geometry.Size{Width: 100, Height: 900},
	})
	require.NoError(t, err)

	w := mustWindow(t, s, id)
	assert.Equal(t, "README.TXT - Notepad", w.Title)
	assert.Equal(t, geometry.Point{X: -10, Y: 5}, w.Position)
	assert.Equal(t, geometry.Size{Width: 300, Height: 900}, w.Size)
}

func TestMaximizeRestore_RoundTripsGeometry(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")
	before := mustWindow(t, s, id)
	require.Equal(t, geometry.Point{X: 50, Y: 30}, before.Position)
	require.Equal(t, geometry.Size{Width: 500, Height: 400}, before.Size)

	require.True(t, s.Maximize(id))
	maxed := mustWindow(t, s, id)
	assert.Equal(t, StateMaximized, maxed.State)
	assert.Equal(t, geometry.Point{}, maxed.Position)
	assert.Equal(t, geometry.Size{Width: 1024, Height: 708}, maxed.Size)
	require.NotNil(t, maxed.SavedPosition)
	require.NotNil(t, maxed.SavedSize)
	assert.Equal(t, before.Position, *maxed.SavedPosition)
	assert.Equal(t, before.Size, *maxed.SavedSize)

	require.True(t, s.Restore(id))
	after := mustWindow(t, s, id)
	assert.Equal(t, StateNormal, after.State)
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Size, after.Size)
	assert.Equal(t, before.ZOrder, after.ZOrder)
	assert.Nil(t, after.SavedPosition)
	assert.Nil(t, after.SavedSize)
}

func TestMaximize_SecondCallRestores(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "terminal")
	before := mustWindow(t, s, id)

	s.Maximize(id)
	s.Maximize(id)

	after := mustWindow(t, s, id)
	assert.Equal(t, StateNormal, after.State)
	assert.Equal(t, before.Bounds(), after.Bounds())
}

func TestMaximize_MinimizedWindowIsRestoredAndFocused(t *testing.T) {
	s := newTestStore(t)
	a := launch(t, s, "notepad")
	b := launch(t, s, "clock")
	s.Minimize(a)
	zb := mustWindow(t, s, b).ZOrder

	require.True(t, s.Maximize(a))
	w := mustWindow(t, s, a)
	assert.Equal(t, StateMaximized, w.State)
	assert.True(t, w.Active)
	assert.Greater(t, w.ZOrder, zb)
	assert.Equal(t, a, s.ActiveID())
	assertSingleActive(t, s)
}

func TestMinimize_MaximizedWindowComesBackNormal(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")
	before := mustWindow(t, s, id)

	s.Maximize(id)
	require.True(t, s.Minimize(id))
	parked := mustWindow(t, s, id)
	assert.Equal(t, StateMinimized, parked.State)
	assert.Nil(t, parked.SavedPosition)
	assert.Equal(t, before.Bounds(), parked.Bounds())

	s.Restore(id)
	assert.Equal(t, before.Bounds(), mustWindow(t, s, id).Bounds())
	assert.Equal(t, StateNormal, mustWindow(t, s, id).State)
}

func TestMinimizeActiveThenFocusOther(t *testing.T) {
	s := newTestStore(t)
	b := launch(t, s, "clock")
	a := launch(t, s, "notepad")
	require.Equal(t, a, s.ActiveID())

	require.True(t, s.Minimize(a))
	assert.Equal(t, "", s.ActiveID(), "minimize must not promote another window")
	assertSingleActive(t, s)

	require.True(t, s.Focus(b))
	wa := mustWindow(t, s, a)
	wb := mustWindow(t, s, b)
	assert.False(t, wa.Active)
	assert.Equal(t, StateMinimized, wa.State)
	assert.True(t, wb.Active)
	assert.Equal(t, StateNormal, wb.State)
	assert.Equal(t, []string{a}, ids(s.Minimized()))
	assertSingleActive(t, s)
}

func TestFocus_ZOrderStrictlyIncreases(t *testing.T) {
	s := newTestStore(t)
	var all []string
	for _, app := range []string{"notepad", "clock", "terminal", "calculator"} {
		all = append(all, launch(t, s, app))
	}

	highest := 0
	for _, w := range s.Windows() {
		highest = max(highest, w.ZOrder)
	}

	order := []string{all[0], all[2], all[0], all[3], all[1], all[1]}
	for _, id := range order {
		require.True(t, s.Focus(id))
		z := mustWindow(t, s, id).ZOrder
		assert.Greater(t, z, highest)
		highest = z
		assert.Equal(t, id, s.ActiveID())
		assertSingleActive(t, s)
	}
}

func TestFocus_RestoresMinimized(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")
	s.Minimize(id)

	require.True(t, s.Focus(id))
	w := mustWindow(t, s, id)
	assert.Equal(t, StateNormal, w.State)
	assert.True(t, w.Active)
}

func TestRestore_NormalIsNoop(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")
	before := mustWindow(t, s, id)
	seq := s.Snapshot().Seq

	assert.False(t, s.Restore(id))
	assert.Equal(t, before, mustWindow(t, s, id))
	assert.Equal(t, seq, s.Snapshot().Seq)
}

func TestMinimize_MinimizedIsNoop(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")
	require.True(t, s.Minimize(id))
	before := mustWindow(t, s, id)
	seq := s.Snapshot().Seq

	assert.False(t, s.Minimize(id))
	assert.Equal(t, before, mustWindow(t, s, id))
	assert.Equal(t, seq, s.Snapshot().Seq)
}

func TestClose_ActivePromotesTopmostVisible(t *testing.T) {
	s := newTestStore(t)
	a := launch(t, s, "notepad")
	b := launch(t, s, "clock")
	c := launch(t, s, "terminal")
	d := launch(t, s, "calculator")

	s.Focus(a)
	s.Minimize(b)
	s.Focus(d)
	// Stack from top: d, a, c. b is parked.
	require.True(t, s.Close(d))
	assert.Equal(t, a, s.ActiveID())
	assertSingleActive(t, s)

	require.True(t, s.Close(a))
	assert.Equal(t, c, s.ActiveID())

	require.True(t, s.Close(c))
	assert.Equal(t, "", s.ActiveID(), "a minimized window is never promoted")
	assertSingleActive(t, s)
}

func TestClose_InactiveKeepsActive(t *testing.T) {
	s := newTestStore(t)
	a := launch(t, s, "notepad")
	b := launch(t, s, "clock")

	require.True(t, s.Close(a))
	assert.Equal(t, b, s.ActiveID())
}

func TestCloseAll(t *testing.T) {
	s := newTestStore(t)
	launch(t, s, "notepad")
	launch(t, s, "clock")
	z := mustWindow(t, s, launch(t, s, "clock")).ZOrder

	assert.Equal(t, 3, s.CloseAll())
	assert.Empty(t, s.Windows())
	assert.Equal(t, "", s.ActiveID())

	id := launch(t, s, "notepad")
	assert.Greater(t, mustWindow(t, s, id).ZOrder, z)
	assert.Equal(t, "notepad-4", id)
}

func TestUnknownIDsAreNoops(t *testing.T) {
	s := newTestStore(t)
	launch(t, s, "notepad")
	before := s.Snapshot()

	assert.False(t, s.Close("ghost"))
	assert.False(t, s.Minimize("ghost"))
	assert.False(t, s.Maximize("ghost"))
	assert.False(t, s.Restore("ghost"))
	assert.False(t, s.Focus("ghost"))
	assert.False(t, s.Move("ghost", 1, 1))
	assert.False(t, s.Resize("ghost", 1, 1))
	assert.False(t, s.SetTitle("ghost", "x"))
	_, ok := s.Window("ghost")
	assert.False(t, ok)

	assert.Equal(t, before, s.Snapshot())
}

func TestResize_ClampsToMinimum(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")

	require.True(t, s.Resize(id, 10, 250))
	assert.Equal(t, geometry.Size{Width: 300, Height: 250}, mustWindow(t, s, id).Size)

	// Direct resize ignores the resizable flag; pointer resizes do not.
	calc := launch(t, s, "calculator")
	_, ok := s.BeginResize(calc, geometry.HandleSE, geometry.Point{})
	require.False(t, ok)
	require.True(t, s.Resize(calc, 400, 400))
	assert.Equal(t, geometry.Size{Width: 400, Height: 400}, mustWindow(t, s, calc).Size)
}

func TestMoveAndSetTitle(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")

	require.True(t, s.Move(id, -200, 900))
	require.True(t, s.SetTitle(id, "Untitled - Notepad"))
	w := mustWindow(t, s, id)
	assert.Equal(t, geometry.Point{X: -200, Y: 900}, w.Position)
	assert.Equal(t, "Untitled - Notepad", w.Title)
}

func TestCascade(t *testing.T) {
	s := newTestStore(t)
	a := launch(t, s, "notepad")
	b := launch(t, s, "clock")
	c := launch(t, s, "solitaire")
	d := launch(t, s, "terminal")
	s.Maximize(a)
	s.Minimize(c)
	parked := mustWindow(t, s, c)
	activeBefore := s.ActiveID()

	highest := 0
	for _, w := range s.Windows() {
		highest = max(highest, w.ZOrder)
	}

	assert.Equal(t, 3, s.Cascade())

	wa, wb, wd := mustWindow(t, s, a), mustWindow(t, s, b), mustWindow(t, s, d)
	assert.Equal(t, geometry.Point{X: 20, Y: 20}, wa.Position)
	assert.Equal(t, geometry.Point{X: 50, Y: 50}, wb.Position)
	assert.Equal(t, geometry.Point{X: 80, Y: 80}, wd.Position)
	assert.Equal(t, []int{1, 2, 3}, []int{wa.ZOrder, wb.ZOrder, wd.ZOrder})
	for _, w := range []Window{wa, wb, wd} {
		assert.Equal(t, StateNormal, w.State)
		assert.Nil(t, w.SavedPosition)
		assert.Equal(t, geometry.Size{Width: 500, Height: 400}, w.Size)
	}
	assert.Equal(t, parked, mustWindow(t, s, c))
	assert.Equal(t, activeBefore, s.ActiveID())

	// The stacking counter is not rewound.
	s.Focus(b)
	assert.Greater(t, mustWindow(t, s, b).ZOrder, highest)
}

func TestCascade_RaisesToMinimum(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "solitaire")
	s.opts.CascadeSize = geometry.Size{Width: 100, Height: 100}

	s.Cascade()
	assert.Equal(t, geometry.Size{Width: 500, Height: 400}, mustWindow(t, s, id).Size)
}

func TestTile_GridWithinWorkArea(t *testing.T) {
	for n := 1; n <= 25; n++ {
		t.Run(fmt.Sprintf("%d windows", n), func(t *testing.T) {
			s := newTestStore(t)
			for i := 0; i < n; i++ {
				launch(t, s, "clock")
			}
			parked := launch(t, s, "clock")
			s.Minimize(parked)
			active := s.ActiveID()
			zBefore := zOrders(s.Windows())

			require.Equal(t, n, s.Tile())

			rows, cols := tiling.CalculateGrid(n)
			assert.True(t, cols*cols >= n && (cols-1)*(cols-1) < n)
			assert.Equal(t, (n+cols-1)/cols, rows)

			area := s.Snapshot().WorkArea
			for i, w := range s.Windows() {
				if w.ID == parked {
					assert.Equal(t, StateMinimized, w.State)
					continue
				}
				assert.Equal(t, StateNormal, w.State)
				assert.True(t, area.Contains(w.Bounds()), "window %d %+v outside %+v", i, w.Bounds(), area)
				assert.True(t, w.Size.Fits(w.MinSize))
			}
			assert.Equal(t, zBefore, zOrders(s.Windows()))
			assert.Equal(t, active, s.ActiveID())
		})
	}
}

func TestTile_RowMajorWithInset(t *testing.T) {
	s := newTestStore(t)
	var all []string
	for i := 0; i < 3; i++ {
		all = append(all, launch(t, s, "clock"))
	}
	s.Maximize(all[1])

	s.Tile()

	// 3 windows: 2 cols, 2 rows over 1024x708 -> 512x354 cells.
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 508, Height: 350}, mustWindow(t, s, all[0]).Bounds())
	assert.Equal(t, geometry.Rect{X: 512, Y: 0, Width: 508, Height: 350}, mustWindow(t, s, all[1]).Bounds())
	assert.Equal(t, geometry.Rect{X: 0, Y: 354, Width: 508, Height: 350}, mustWindow(t, s, all[2]).Bounds())
	assert.Equal(t, StateNormal, mustWindow(t, s, all[1]).State)
}

func TestSetWorkArea_RefitsMaximized(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")
	s.Maximize(id)

	s.SetWorkArea(geometry.Size{Width: 800, Height: 600})
	w := mustWindow(t, s, id)
	assert.Equal(t, geometry.Size{Width: 800, Height: 540}, w.Size)

	s.Restore(id)
	assert.Equal(t, geometry.Size{Width: 500, Height: 400}, mustWindow(t, s, id).Size)
}

func TestReadsReturnCopies(t *testing.T) {
	s := newTestStore(t)
	id := launch(t, s, "notepad")
	s.Maximize(id)

	w := mustWindow(t, s, id)
	w.Title = "changed"
	w.SavedPosition.X = 999

	list := s.Windows()
	list[0].Size.Width = 1

	again := mustWindow(t, s, id)
	assert.Equal(t, "Notepad", again.Title)
	assert.Equal(t, 50, again.SavedPosition.X)
	assert.Equal(t, 1024, again.Size.Width)
}

func TestObserversSeeEveryMutationInOrder(t *testing.T) {
	s := newTestStore(t)
	var kinds []EventKind
	var seqs []uint64
	unsubscribe := s.Subscribe(ObserverFunc(func(ev Event, snap Snapshot) {
		kinds = append(kinds, ev.Kind)
		seqs = append(seqs, ev.Seq)
		assert.Equal(t, ev.Seq, snap.Seq)
		assert.Equal(t, "test-session", snap.SessionID)
	}))

	id := launch(t, s, "notepad")
	s.Move(id, 1, 2)
	s.Maximize(id)
	s.Maximize(id)
	s.Minimize(id)
	s.Focus(id)
	s.Close("ghost")
	s.Close(id)

	assert.Equal(t, []EventKind{
		EventLaunch, EventMove, EventMaximize, EventRestore, EventMinimize, EventFocus, EventClose,
	}, kinds)
	for i := 1; i < len(seqs); i++ {
		assert.Greater(t, seqs[i], seqs[i-1])
	}

	unsubscribe()
	launch(t, s, "clock")
	assert.Len(t, kinds, 7)
}

func TestSnapshot(t *testing.T) {
	s := newTestStore(t)
	a := launch(t, s, "notepad")
	launch(t, s, "clock")
	s.Focus(a)

	snap := s.Snapshot()
	assert.Equal(t, "test-session", snap.SessionID)
	assert.Equal(t, a, snap.ActiveID)
	assert.Equal(t, geometry.Size{Width: 1024, Height: 768}, snap.Desktop)
	assert.Equal(t, geometry.Rect{Width: 1024, Height: 708}, snap.WorkArea)
	assert.Len(t, snap.Windows, 2)
	w, ok := snap.Window(a)
	require.True(t, ok)
	assert.True(t, w.Active)
}

func TestNewStore_GeneratesSessionID(t *testing.T) {
	a := NewStore(apps.Builtin(), DefaultOptions())
	b := NewStore(apps.Builtin(), DefaultOptions())
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func ids(windows []Window) []string {
	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = w.ID
	}
	return out
}

func zOrders(windows []Window) []int {
	out := make([]int, len(windows))
	for i, w := range windows {
		out[i] = w.ZOrder
	}
	return out
}
