package tasklist_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
	"tasktrack/internal/testutil"
)

func loadedStore(t *testing.T, svc *testutil.FakeService) *tasklist.Store {
	t.Helper()
	store := tasklist.NewStore(svc, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return store
}

func TestStore_LoadMirrorsBackendOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", "", false)
	svc.AddTask("B", "", true)

	store := loadedStore(t, svc)
	m := store.Mirror()

	if m.Len() != 2 {
		t.Fatalf("expected 2 tasks, got %d", m.Len())
	}
	if m.Tasks()[0].Title != "A" || m.Tasks()[1].Title != "B" {
		t.Errorf("unexpected order: %+v", m.Tasks())
	}
	if m.Loading() {
		t.Error("expected loading to be cleared")
	}
	if m.Err() != "" {
		t.Errorf("expected no error, got %q", m.Err())
	}
}

func TestStore_LoadFailureLeavesMirrorEmpty(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", "", false)
	store := loadedStore(t, svc)

	svc.ListErr = service.ErrUnavailable
	err := store.Load(context.Background())

	if !errors.Is(err, service.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	m := store.Mirror()
	if m.Len() != 0 {
		t.Errorf("expected empty mirror, got %d tasks", m.Len())
	}
	if m.Err() != tasklist.ActionLoad.Message() {
		t.Errorf("expected load message, got %q", m.Err())
	}
}

func TestStore_LoadClearsPreviousError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = errors.New("boom")
	store := tasklist.NewStore(svc, nil)
	_ = store.Load(context.Background())

	svc.ListErr = nil
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Mirror().Err() != "" {
		t.Errorf("expected error cleared, got %q", store.Mirror().Err())
	}
}

func TestStore_CreatePrependsExactlyOne(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Old", "", false)
	store := loadedStore(t, svc)

	d, err := tasklist.NewDraft("  New  ", "  notes ")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	task, err := store.Create(context.Background(), d)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks := store.Mirror().Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != task.ID || tasks[0].Title != "New" || tasks[0].Description != "notes" {
		t.Errorf("expected new task first, got %+v", tasks[0])
	}
}

func TestStore_CreateFailureKeepsMirror(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Old", "", false)
	store := loadedStore(t, svc)
	svc.CreateErr = errors.New("boom")

	d, _ := tasklist.NewDraft("New", "")
	if _, err := store.Create(context.Background(), d); err == nil {
		t.Fatal("expected error")
	}
	if store.Mirror().Len() != 1 {
		t.Errorf("expected mirror unchanged, got %d tasks", store.Mirror().Len())
	}
	if store.Mirror().Err() != "Failed to create task" {
		t.Errorf("unexpected message %q", store.Mirror().Err())
	}
}

func TestStore_ToggleFlipsOnlyCompletion(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("A", "desc", false)
	store := loadedStore(t, svc)
	before, _, _ := store.Mirror().Find(id)

	if _, err := store.Toggle(context.Background(), id); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	after, _, ok := store.Mirror().Find(id)
	if !ok {
		t.Fatal("task missing after toggle")
	}
	if !after.Completed {
		t.Error("expected completed")
	}
	if after.ID != before.ID || after.Title != before.Title || after.Description != before.Description {
		t.Errorf("toggle changed other fields: before %+v after %+v", before, after)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("toggle changed created_at")
	}
}

func TestStore_ToggleExample(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", "", false)
	store := loadedStore(t, svc)

	if _, err := store.Toggle(context.Background(), "1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	tasks := store.Mirror().Tasks()
	if len(tasks) != 1 || tasks[0].ID != "1" || tasks[0].Title != "A" || !tasks[0].Completed {
		t.Errorf("unexpected mirror: %+v", tasks)
	}
}

func TestStore_ToggleFailureUsesUpdateMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("A", "", false)
	store := loadedStore(t, svc)
	svc.ToggleErr = service.ErrTimeout

	if _, err := store.Toggle(context.Background(), id); !errors.Is(err, service.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if store.Mirror().Err() != "Failed to update task" {
		t.Errorf("unexpected message %q", store.Mirror().Err())
	}
	task, _, _ := store.Mirror().Find(id)
	if task.Completed {
		t.Error("failed toggle must not change the mirror")
	}
}

func TestStore_UpdateReplacesEntry(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", "", false)
	id := svc.AddTask("B", "old", false)
	store := loadedStore(t, svc)

	title := "B2"
	u, err := tasklist.PartialUpdate(&title, nil)
	if err != nil {
		t.Fatalf("partial update: %v", err)
	}
	if _, err := store.Update(context.Background(), id, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	task, pos, _ := store.Mirror().Find(id)
	if pos != 1 {
		t.Errorf("expected position kept, got %d", pos)
	}
	if task.Title != "B2" || task.Description != "old" {
		t.Errorf("unexpected task %+v", task)
	}
	if !task.WasUpdated() {
		t.Error("expected updated timestamp from server")
	}
}

func TestStore_DeleteRemovesMatchingEntry(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", "", false)
	id := svc.AddTask("B", "", false)
	svc.AddTask("C", "", false)
	store := loadedStore(t, svc)

	if err := store.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks := store.Mirror().Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.ID == id {
			t.Errorf("deleted task still present")
		}
	}
	if tasks[0].Title != "A" || tasks[1].Title != "C" {
		t.Errorf("unexpected remaining order %+v", tasks)
	}
}

func TestStore_DeleteFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("A", "", false)
	store := loadedStore(t, svc)
	svc.DeleteErr = errors.New("boom")

	if err := store.Delete(context.Background(), id); err == nil {
		t.Fatal("expected error")
	}
	if store.Mirror().Len() != 1 {
		t.Error("failed delete must not change the mirror")
	}
	if store.Mirror().Err() != "Failed to delete task" {
		t.Errorf("unexpected message %q", store.Mirror().Err())
	}
	store.Mirror().DismissError()
	if store.Mirror().Err() != "" {
		t.Error("expected banner dismissed")
	}
}

func TestMirror_ApplyUnknownIDIsNoop(t *testing.T) {
	m := tasklist.NewMirror()
	_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionLoad, Tasks: []service.Task{{ID: "1", Title: "A"}}})

	_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionToggle, ID: "9", Task: service.Task{ID: "9", Title: "X"}})
	_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionDelete, ID: "9"})

	if m.Len() != 1 || m.Tasks()[0].Title != "A" {
		t.Errorf("unexpected mirror %+v", m.Tasks())
	}
}

func TestMirror_ApplyDoesNotAliasInput(t *testing.T) {
	src := []service.Task{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}
	m := tasklist.NewMirror()
	_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionLoad, Tasks: src})
	_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionDelete, ID: "1"})

	if src[0].Title != "A" || src[1].Title != "B" {
		t.Errorf("input slice modified: %+v", src)
	}
}

func TestMirror_FilterPartition(t *testing.T) {
	states := [][]bool{
		nil,
		{false},
		{true},
		{true, false, true, false, false},
		{true, true, true},
	}
	for _, completed := range states {
		m := tasklist.NewMirror()
		var tasks []service.Task
		for i, c := range completed {
			tasks = append(tasks, service.Task{ID: service.ID(strconv.Itoa(i)), Title: "t", Completed: c})
		}
		_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionLoad, Tasks: tasks})

		seen := make(map[service.ID]int)
		for _, task := range m.Select(tasklist.FilterActive) {
			seen[task.ID]++
		}
		for _, task := range m.Select(tasklist.FilterCompleted) {
			seen[task.ID]++
		}
		all := m.Select(tasklist.FilterAll)
		if len(seen) != len(all) {
			t.Errorf("active ∪ completed has %d tasks, all has %d", len(seen), len(all))
		}
		for _, task := range all {
			if seen[task.ID] != 1 {
				t.Errorf("task %s seen %d times", task.ID, seen[task.ID])
			}
		}

		stats := m.Stats()
		if stats.Active+stats.Completed != stats.Total {
			t.Errorf("inconsistent stats %+v", stats)
		}
	}
}

func TestMirror_VisibleFollowsFilter(t *testing.T) {
	m := tasklist.NewMirror()
	_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionLoad, Tasks: []service.Task{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B", Completed: true},
		{ID: "3", Title: "C"},
	}})

	m.SetFilter(tasklist.FilterActive)
	if got := m.Visible(); len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("unexpected active view %+v", got)
	}
	m.SetFilter(tasklist.FilterCompleted)
	if got := m.Visible(); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("unexpected completed view %+v", got)
	}
	if m.CanEdit("2") {
		t.Error("completed task must not be editable")
	}
	if !m.CanEdit("1") {
		t.Error("open task should be editable")
	}
	if m.CanEdit("404") {
		t.Error("unknown task must not be editable")
	}
}

func TestMirror_At(t *testing.T) {
	m := tasklist.NewMirror()
	_ = m.Apply(tasklist.Outcome{Action: tasklist.ActionLoad, Tasks: []service.Task{
		{ID: "1", Title: "A", CreatedAt: time.Now()},
	}})
	if _, ok := m.At(0); ok {
		t.Error("position 0 should be out of range")
	}
	if task, ok := m.At(1); !ok || task.ID != "1" {
		t.Errorf("unexpected At(1): %+v %v", task, ok)
	}
	if _, ok := m.At(2); ok {
		t.Error("position 2 should be out of range")
	}
}
