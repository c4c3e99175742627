package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"showmetasks/internal/apiclient"
	"showmetasks/internal/commands"
	"showmetasks/internal/config"
	"showmetasks/internal/exitcode"
	"showmetasks/internal/testutil"
	"showmetasks/internal/workspace"
)

// runCommand is a helper to run a command against a workspace over FakeService.
// A nil svc runs the command without a workspace, like the dispatcher does
// for commands that need no auth.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var ws *workspace.Controller
	if svc != nil {
		ws = workspace.New(svc, nil)
		defer ws.Close()
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, ws, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "showmetasks 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestHelpCommand_MentionsEveryCommand(t *testing.T) {
	stdout, _, _ := runCommand(t, &commands.HelpCmd{}, nil, nil, false)
	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.Contains(stdout, "showmetasks "+cmd.Name()) {
			t.Errorf("expected help to mention %q", cmd.Name())
		}
	}
}

// Tests for lists command
func TestListsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")
	svc.AddListWithID(50, "Old", true)

	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "Default Task List [default]\nWork\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListsCommand_Trash(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")
	svc.AddListWithID(50, "Old", true)

	cmd := &commands.ListsCmd{}
	cmd.SetTrash(true)
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Old [trash]\n" {
		t.Errorf("expected %q, got %q", "Old [trash]\n", stdout)
	}
}

func TestListsCommand_EmptyTrash(t *testing.T) {
	cmd := &commands.ListsCmd{}
	cmd.SetTrash(true)
	stdout, _, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "trash is empty\n" {
		t.Errorf("expected %q, got %q", "trash is empty\n", stdout)
	}
}

func TestListsCommand_Search(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")
	svc.AddList("Homework")
	svc.AddList("Groceries")

	cmd := &commands.ListsCmd{}
	cmd.SetSearch("WORK")
	stdout, _, _ := runCommand(t, cmd, svc, nil, false)

	if stdout != "Work\nHomework\n" {
		t.Errorf("expected %q, got %q", "Work\nHomework\n", stdout)
	}

	cmd.SetSearch("nothing")
	stdout, _, _ = runCommand(t, cmd, svc, nil, false)
	if stdout != "no lists found\n" {
		t.Errorf("expected %q, got %q", "no lists found\n", stdout)
	}

	// spaces inside a query are matched literally
	cmd.SetSearch(" work")
	stdout, _, _ = runCommand(t, cmd, svc, nil, false)
	if stdout != "no lists found\n" {
		t.Errorf("expected %q, got %q", "no lists found\n", stdout)
	}
}

func TestListsCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListListsErr = testutil.ErrInjected

	_, stderr, code := runCommand(t, &commands.ListsCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: injected failure\n" {
		t.Errorf("expected backend error, got %q", stderr)
	}
}

func TestListsCommand_Unauthorized(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListListsErr = &apiclient.RequestError{StatusCode: 401, Message: "Unauthorized"}

	_, stderr, code := runCommand(t, &commands.ListsCmd{}, svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error: ") {
		t.Errorf("expected auth error, got %q", stderr)
	}
}

// Tests for list command
func TestListCommand_DefaultListWithTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, "Task one")
	id := svc.AddTask(testutil.DefaultListID, "Task two")
	svc.SetTaskCompleted(context.Background(), id, true)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "------------\nDefault Task List [default]\n------------\n" +
		"   1  [ ] Task one\n" +
		"   2  [x] Task two\n"
	if stdout != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stdout)
	}
}

func TestListCommand_EmptyDefaultList(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "------------\nDefault Task List [default]\n------------\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_SpecificList(t *testing.T) {
	svc := testutil.NewFakeService()
	work := svc.AddList("Work")
	svc.AddTask(work, "Write report")
	svc.AddTask(testutil.DefaultListID, "Not shown")

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, []string{"work"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "------------\nWork\n------------\n   1  [ ] Write report\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_ListNotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), []string{"Nope"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list not found: Nope\n" {
		t.Errorf("expected list not found, got %q", stderr)
	}
}

func TestListCommand_AmbiguousName(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")
	svc.AddList("work")

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, []string{"Work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: ambiguous list name: Work\n" {
		t.Errorf("expected ambiguous name, got %q", stderr)
	}
}

func TestListCommand_NoLists(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewEmptyFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: no lists (run: showmetasks firstlist)\n" {
		t.Errorf("expected no lists hint, got %q", stderr)
	}
}

func TestListCommand_TrashedListNotListed(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddListWithID(50, "Old", true)

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, []string{"Old"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list not found: Old\n" {
		t.Errorf("expected list not found, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := svc.Tasks(testutil.DefaultListID)
	if len(tasks) != 1 || tasks[0].Description != "Buy milk" {
		t.Errorf("expected task 'Buy milk' in default list, got %v", tasks)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Task"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoDescription(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"  "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: description required\n" {
		t.Errorf("expected description required, got %q", stderr)
	}
	if n := svc.Calls("ListLists"); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestAddCommand_ToSpecificList(t *testing.T) {
	svc := testutil.NewFakeService()
	work := svc.AddList("Work")

	cmd := &commands.AddCmd{}
	cmd.SetListName("Work")
	_, _, code := runCommand(t, cmd, svc, []string{"Write", "report"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if tasks := svc.Tasks(work); len(tasks) != 1 || tasks[0].Description != "Write report" {
		t.Errorf("expected task in Work, got %v", tasks)
	}
	if tasks := svc.Tasks(testutil.DefaultListID); len(tasks) != 0 {
		t.Errorf("expected default list untouched, got %v", tasks)
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = testutil.ErrInjected

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Task"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: injected failure\n" {
		t.Errorf("expected backend error, got %q", stderr)
	}
}

// Tests for done and toggle commands
func TestDoneCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, "First")
	second := svc.AddTask(testutil.DefaultListID, "Second")

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	for _, task := range svc.Tasks(testutil.DefaultListID) {
		if task.Completed != (task.ID == second) {
			t.Errorf("expected only task %d completed, got %+v", second, task)
		}
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required, got %q", stderr)
	}
}

func TestDoneCommand_InvalidRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeService(), []string{"1a"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task reference: 1a\n" {
		t.Errorf("expected invalid reference, got %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, "Only")

	for _, ref := range []string{"0", "2"} {
		_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{ref}, false)
		if code != exitcode.UserError {
			t.Errorf("%s: expected exit code %d, got %d", ref, exitcode.UserError, code)
		}
		expected := "error: task number out of range: " + ref + "\n"
		if stderr != expected {
			t.Errorf("%s: expected %q, got %q", ref, expected, stderr)
		}
	}
}

func TestDoneCommand_FailureRollsBack(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask(testutil.DefaultListID, "Task")
	svc.UpdateTaskErr[id] = testutil.ErrInjected

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: injected failure\n" {
		t.Errorf("expected backend error, got %q", stderr)
	}
	if svc.Tasks(testutil.DefaultListID)[0].Completed {
		t.Error("expected task to stay open on the server")
	}
}

func TestToggleCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, "Task")

	stdout, _, code := runCommand(t, &commands.ToggleCmd{}, svc, []string{"1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "done\n" {
		t.Errorf("expected 'done\\n', got %q", stdout)
	}
	if !svc.Tasks(testutil.DefaultListID)[0].Completed {
		t.Error("expected task completed")
	}

	stdout, _, _ = runCommand(t, &commands.ToggleCmd{}, svc, []string{"1"}, false)
	if stdout != "open\n" {
		t.Errorf("expected 'open\\n', got %q", stdout)
	}
	if svc.Tasks(testutil.DefaultListID)[0].Completed {
		t.Error("expected task open again")
	}
}

// Tests for edit command
func TestEditCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, "Old text")

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"1", "New", "text"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if got := svc.Tasks(testutil.DefaultListID)[0].Description; got != "New text" {
		t.Errorf("expected 'New text', got %q", got)
	}
}

func TestEditCommand_NoDescription(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, "Old text")

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: description required\n" {
		t.Errorf("expected description required, got %q", stderr)
	}
	if n := svc.Calls("UpdateTask"); n != 0 {
		t.Errorf("expected no update, got %d", n)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(testutil.DefaultListID, "Keep")
	svc.AddTask(testutil.DefaultListID, "Remove")

	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := svc.Tasks(testutil.DefaultListID)
	if len(tasks) != 1 || tasks[0].Description != "Keep" {
		t.Errorf("expected only 'Keep' left, got %v", tasks)
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected task reference required, got %q", stderr)
	}
}

// Tests for list management commands
func TestCreateListCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.CreateListCmd{}, svc, []string{"Side", "projects"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok: Side projects\n" {
		t.Errorf("expected 'ok: Side projects\\n', got %q", stdout)
	}
	if lists := svc.Lists(); len(lists) != 2 || lists[1].Name != "Side projects" {
		t.Errorf("expected new list on the server, got %v", lists)
	}
}

func TestCreateListCommand_NoName(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.CreateListCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list name required\n" {
		t.Errorf("expected list name required, got %q", stderr)
	}
}

func TestCreateListCommand_Duplicate(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")

	_, stderr, code := runCommand(t, &commands.CreateListCmd{}, svc, []string{"work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list already exists: work\n" {
		t.Errorf("expected list already exists, got %q", stderr)
	}
	if n := svc.Calls("CreateList"); n != 0 {
		t.Errorf("expected no CreateList call, got %d", n)
	}
}

func TestTodayCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.TodayCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	lists := svc.Lists()
	if len(lists) != 2 {
		t.Fatalf("expected a new list, got %v", lists)
	}
	if stdout != "ok: "+lists[1].Name+"\n" {
		t.Errorf("expected the dated name echoed, got %q", stdout)
	}
	if !strings.Contains(lists[1].Name, ", ") {
		t.Errorf("expected a dated list name, got %q", lists[1].Name)
	}
}

func TestFirstListCommand(t *testing.T) {
	svc := testutil.NewEmptyFakeService()

	stdout, _, code := runCommand(t, &commands.FirstListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok: My First List\n" {
		t.Errorf("expected 'ok: My First List\\n', got %q", stdout)
	}
}

func TestRenameListCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")

	stdout, _, code := runCommand(t, &commands.RenameListCmd{}, svc, []string{"Work", "Job"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if lists := svc.Lists(); lists[1].Name != "Job" {
		t.Errorf("expected list renamed to Job, got %q", lists[1].Name)
	}
}

func TestRenameListCommand_BadArgs(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RenameListCmd{}, testutil.NewFakeService(), []string{"Work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: old and new list name required\n" {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

// Tests for trash, restore and purge
func TestTrashCommand_Single(t *testing.T) {
	svc := testutil.NewFakeService()
	work := svc.AddList("Work")

	stdout, _, code := runCommand(t, &commands.TrashCmd{}, svc, []string{"Work"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	for _, l := range svc.Lists() {
		if l.ID == work && !l.Deleted {
			t.Error("expected Work in the trash")
		}
	}
}

func TestTrashCommand_Several(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")
	svc.AddList("Home")

	_, _, code := runCommand(t, &commands.TrashCmd{}, svc, []string{"Work", "Home"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if n := svc.Calls("SetListDeleted"); n != 2 {
		t.Errorf("expected 2 soft deletes, got %d", n)
	}
	for _, l := range svc.Lists() {
		if l.Deleted == l.IsDefault {
			t.Errorf("unexpected trash state for %q: %v", l.Name, l.Deleted)
		}
	}
}

func TestTrashCommand_RepeatedName(t *testing.T) {
	svc := testutil.NewFakeService()
	work := svc.AddList("Work")
	svc.AddList("Home")

	stdout, stderr, code := runCommand(t, &commands.TrashCmd{}, svc, []string{"Work", "Work"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if n := svc.Calls("SetListDeleted"); n != 1 {
		t.Errorf("expected 1 soft delete, got %d", n)
	}
	for _, l := range svc.Lists() {
		if l.Deleted != (l.ID == work) {
			t.Errorf("unexpected trash state for %q: %v", l.Name, l.Deleted)
		}
	}
}

func TestTrashCommand_PartialFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")
	home := svc.AddList("Home")
	svc.SetListDeletedErr[home] = testutil.ErrInjected

	_, stderr, code := runCommand(t, &commands.TrashCmd{}, svc, []string{"Work", "Home"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: injected failure\n" {
		t.Errorf("expected backend error, got %q", stderr)
	}
}

func TestTrashCommand_DefaultList(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.TrashCmd{}, svc, []string{testutil.DefaultListName}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: cannot delete default list\n" {
		t.Errorf("expected default list error, got %q", stderr)
	}
	if n := svc.Calls("SetListDeleted"); n != 0 {
		t.Errorf("expected no soft delete, got %d", n)
	}
}

func TestTrashCommand_NoName(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.TrashCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list name required\n" {
		t.Errorf("expected list name required, got %q", stderr)
	}
}

func TestRestoreCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddListWithID(50, "Old", true)

	stdout, _, code := runCommand(t, &commands.RestoreCmd{}, svc, []string{"Old"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if lists := svc.Lists(); lists[1].Deleted {
		t.Error("expected Old restored")
	}
}

func TestRestoreCommand_NotInTrash(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("Work")

	_, stderr, code := runCommand(t, &commands.RestoreCmd{}, svc, []string{"Work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list not in trash: Work\n" {
		t.Errorf("expected not in trash, got %q", stderr)
	}
}

func TestPurgeCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddListWithID(50, "Old", true)

	_, _, code := runCommand(t, &commands.PurgeCmd{}, svc, []string{"Old"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if lists := svc.Lists(); len(lists) != 1 {
		t.Errorf("expected Old purged, got %v", lists)
	}
}

func TestPurgeCommand_Unknown(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.PurgeCmd{}, testutil.NewFakeService(), []string{"Ghost"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list not found: Ghost\n" {
		t.Errorf("expected list not found, got %q", stderr)
	}
}
