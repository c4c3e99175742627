// Package mockapi is an in-memory implementation of the ShowMeTasks HTTP API.
// It backs the devserver command and the end-to-end tests.
package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// BasePath is where the API is mounted.
const BasePath = "/api/todos"

// DefaultListName is the name of the list provisioned for every new user.
const DefaultListName = "Default Task List"

type taskRecord struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`

	listID int64
	user   string
}

type listRecord struct {
	ID        int64
	Name      string
	IsDefault bool
	Deleted   bool
	user      string
}

// nestedTask is the task shape inside a list payload.
type nestedTask struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type listPayload struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Deleted   bool         `json:"deleted"`
	IsDefault bool         `json:"isDefault"`
	Tasks     []nestedTask `json:"tasks"`
}

type failure struct {
	status  int
	message string
}

// Server holds the API state for all users. Users are identified by their
// bearer token; a user's default list is created on first contact.
type Server struct {
	mu     sync.Mutex
	nextID int64
	lists  []*listRecord
	tasks  []*taskRecord
	users  map[string]bool

	listFailures map[int64]failure
	taskFailures map[int64]failure
	calls        map[string]int

	logger *log.Logger
}

// New creates an empty server.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{
		nextID:       1,
		users:        make(map[string]bool),
		listFailures: make(map[int64]failure),
		taskFailures: make(map[int64]failure),
		calls:        make(map[string]int),
		logger:       logger,
	}
}

// Handler returns an echo instance serving the API under BasePath.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	s.Register(e)
	return e
}

// Register wires the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	g := e.Group(BasePath, s.authenticate)
	g.GET("/list", s.getLists)
	g.GET("/list/default", s.getDefaultList)
	g.POST("/list", s.createList)
	g.PUT("/list/:id", s.updateList)
	g.DELETE("/list/:id", s.deleteList)
	g.GET("/:id", s.getTasks)
	g.POST("", s.createTask)
	g.PUT("/:id", s.updateTask)
	g.DELETE("/:id", s.deleteTask)
}

// SeedList adds a list for user and returns its id.
func (s *Server) SeedList(user, name string, deleted bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureUserLocked(user)
	l := &listRecord{ID: s.allocLocked(), Name: name, Deleted: deleted, user: user}
	s.lists = append(s.lists, l)
	return l.ID
}

// SeedTask adds a task to a list and returns its id.
func (s *Server) SeedTask(user string, listID int64, description string, completed bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &taskRecord{
		ID:          s.allocLocked(),
		Description: description,
		Completed:   completed,
		CreatedAt:   time.Now(),
		listID:      listID,
		user:        user,
	}
	s.tasks = append(s.tasks, t)
	return t.ID
}

// FailList makes every update or delete of the list fail with status.
func (s *Server) FailList(id int64, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFailures[id] = failure{status: status, message: message}
}

// FailTask makes every update or delete of the task fail with status.
func (s *Server) FailTask(id int64, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskFailures[id] = failure{status: status, message: message}
}

// Calls returns how many requests matched "METHOD route", e.g. "GET /list".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// ListDeleted reports the stored deleted flag of a list.
func (s *Server) ListDeleted(id int64) (deleted, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.ID == id {
			return l.Deleted, true
		}
	}
	return false, false
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return c.String(http.StatusUnauthorized, "Unauthorized")
		}
		c.Set("user", token)

		s.mu.Lock()
		s.ensureUserLocked(token)
		s.calls[c.Request().Method+" "+strings.TrimPrefix(c.Path(), BasePath)]++
		s.mu.Unlock()

		s.logger.WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		}).Debug("mockapi.request")
		return next(c)
	}
}

func (s *Server) getLists(c echo.Context) error {
	user := c.Get("user").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]listPayload, 0)
	for _, l := range s.lists {
		if l.user == user {
			out = append(out, s.payloadLocked(l))
		}
	}
	return writeJSON(c, http.StatusOK, out)
}

func (s *Server) getDefaultList(c echo.Context) error {
	user := c.Get("user").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.user == user && l.IsDefault {
			return writeJSON(c, http.StatusOK, s.payloadLocked(l))
		}
	}
	return c.String(http.StatusNotFound, "The Default task list was not found!")
}

func (s *Server) createList(c echo.Context) error {
	user := c.Get("user").(string)
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(c, &req); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.String(http.StatusBadRequest, "Task list name cannot be empty.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &listRecord{ID: s.allocLocked(), Name: req.Name, user: user}
	s.lists = append(s.lists, l)
	return writeJSON(c, http.StatusCreated, s.payloadLocked(l))
}

func (s *Server) updateList(c echo.Context) error {
	user := c.Get("user").(string)
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Name    *string `json:"name"`
		Deleted *bool   `json:"deleted"`
	}
	if err := readJSON(c, &req); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.listFailures[id]; ok {
		return c.String(f.status, f.message)
	}
	l := s.findListLocked(user, id)
	if l == nil {
		return c.String(http.StatusNotFound, "Task list not found.")
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.String(http.StatusBadRequest, "Task list name cannot be empty.")
		}
		l.Name = *req.Name
	}
	if req.Deleted != nil {
		if *req.Deleted && l.IsDefault {
			return c.String(http.StatusBadRequest, "Default task list cannot be deleted.")
		}
		l.Deleted = *req.Deleted
	}
	return writeJSON(c, http.StatusOK, s.payloadLocked(l))
}

func (s *Server) deleteList(c echo.Context) error {
	user := c.Get("user").(string)
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.listFailures[id]; ok {
		return c.String(f.status, f.message)
	}
	l := s.findListLocked(user, id)
	if l == nil {
		return c.String(http.StatusNotFound, "Task list not found.")
	}
	if l.IsDefault {
		return c.String(http.StatusBadRequest, "Default task list cannot be deleted.")
	}
	kept := s.lists[:0]
	for _, other := range s.lists {
		if other.ID != id {
			kept = append(kept, other)
		}
	}
	s.lists = kept
	keptTasks := s.tasks[:0]
	for _, t := range s.tasks {
		if t.listID != id {
			keptTasks = append(keptTasks, t)
		}
	}
	s.tasks = keptTasks
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getTasks(c echo.Context) error {
	user := c.Get("user").(string)
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findListLocked(user, id) == nil {
		return c.String(http.StatusNotFound, "Task list not found.")
	}
	out := make([]taskRecord, 0)
	for _, t := range s.tasks {
		if t.listID == id {
			out = append(out, *t)
		}
	}
	return writeJSON(c, http.StatusOK, out)
}

func (s *Server) createTask(c echo.Context) error {
	user := c.Get("user").(string)
	var req struct {
		TaskListID  int64  `json:"taskListId"`
		Description string `json:"description"`
	}
	if err := readJSON(c, &req); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findListLocked(user, req.TaskListID) == nil {
		return c.String(http.StatusNotFound, "Task list not found.")
	}
	t := &taskRecord{
		ID:          s.allocLocked(),
		Description: req.Description,
		CreatedAt:   time.Now(),
		listID:      req.TaskListID,
		user:        user,
	}
	s.tasks = append(s.tasks, t)
	return writeJSON(c, http.StatusCreated, t)
}

func (s *Server) updateTask(c echo.Context) error {
	user := c.Get("user").(string)
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	if err := readJSON(c, &req); err != nil {
		return c.String(http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.taskFailures[id]; ok {
		return c.String(f.status, f.message)
	}
	t := s.findTaskLocked(user, id)
	if t == nil {
		return c.String(http.StatusNotFound, "Task not found.")
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	return writeJSON(c, http.StatusOK, t)
}

func (s *Server) deleteTask(c echo.Context) error {
	user := c.Get("user").(string)
	id, err := pathID(c)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.taskFailures[id]; ok {
		return c.String(f.status, f.message)
	}
	if s.findTaskLocked(user, id) == nil {
		return c.String(http.StatusNotFound, "Task not found.")
	}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) ensureUserLocked(user string) {
	if s.users[user] {
		return
	}
	s.users[user] = true
	s.lists = append(s.lists, &listRecord{
		ID:        s.allocLocked(),
		Name:      DefaultListName,
		IsDefault: true,
		user:      user,
	})
}

func (s *Server) allocLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) findListLocked(user string, id int64) *listRecord {
	for _, l := range s.lists {
		if l.ID == id && l.user == user {
			return l
		}
	}
	return nil
}

func (s *Server) findTaskLocked(user string, id int64) *taskRecord {
	for _, t := range s.tasks {
		if t.ID == id && t.user == user {
			return t
		}
	}
	return nil
}

func (s *Server) payloadLocked(l *listRecord) listPayload {
	p := listPayload{
		ID:        l.ID,
		Name:      l.Name,
		Deleted:   l.Deleted,
		IsDefault: l.IsDefault,
		Tasks:     make([]nestedTask, 0),
	}
	for _, t := range s.tasks {
		if t.listID == l.ID {
			p.Tasks = append(p.Tasks, nestedTask{ID: t.ID, Title: t.Description, Completed: t.Completed})
		}
	}
	return p
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func readJSON(c echo.Context, out any) error {
	return sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(out)
}

func writeJSON(c echo.Context, status int, v any) error {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return err
	}
	return c.JSONBlob(status, data)
}
