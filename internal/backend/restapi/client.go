// Package restapi implements the service.Service interface over the ShowMeTasks HTTP API.
package restapi

import (
	"context"
	"fmt"
	"net/http"

	"showmetasks/internal/apiclient"
	"showmetasks/internal/service"
	"showmetasks/internal/session"
)

// Client implements service.Service on top of apiclient.
type Client struct {
	api  *apiclient.Client
	sess *session.Session
}

// New creates a client that authenticates with sess unless the call's
// context carries its own session.
func New(api *apiclient.Client, sess *session.Session) *Client {
	return &Client{api: api, sess: sess}
}

// do resolves the token and forwards the request; errors pass through unchanged.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	sess := c.sess
	if s, ok := session.FromContext(ctx); ok {
		sess = s
	}
	token, err := sess.AccessToken(ctx)
	if err != nil {
		return err
	}
	return c.api.Do(ctx, path, apiclient.Options{
		Method: method,
		Token:  token,
		Body:   body,
	}, out)
}

// ListLists returns all lists of the user.
func (c *Client) ListLists(ctx context.Context) ([]service.TaskList, error) {
	var lists []service.TaskList
	if err := c.do(ctx, http.MethodGet, "/list", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// DefaultList returns the user's default list.
func (c *Client) DefaultList(ctx context.Context) (service.TaskList, error) {
	var list service.TaskList
	err := c.do(ctx, http.MethodGet, "/list/default", nil, &list)
	return list, err
}

// CreateList creates a new list.
func (c *Client) CreateList(ctx context.Context, name string) (service.TaskList, error) {
	var list service.TaskList
	err := c.do(ctx, http.MethodPost, "/list", struct {
		Name string `json:"name"`
	}{name}, &list)
	return list, err
}

// UpdateList renames a list and/or flips its deleted flag.
func (c *Client) UpdateList(ctx context.Context, id int64, upd service.ListUpdate) (service.TaskList, error) {
	var list service.TaskList
	err := c.do(ctx, http.MethodPut, listPath(id), upd, &list)
	return list, err
}

// SetListDeleted soft-deletes or restores a list.
func (c *Client) SetListDeleted(ctx context.Context, id int64, deleted bool) error {
	_, err := c.UpdateList(ctx, id, service.ListUpdate{Deleted: service.Bool(deleted)})
	return err
}

// DeleteList permanently deletes a list.
func (c *Client) DeleteList(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, listPath(id), nil, nil)
}

// ListTasks returns the tasks of a list.
func (c *Client) ListTasks(ctx context.Context, listID int64) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, taskPath(listID), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task in a list.
func (c *Client) CreateTask(ctx context.Context, listID int64, description string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, http.MethodPost, "", service.NewTask{
		TaskListID:  listID,
		Description: description,
	}, &task)
	return task, err
}

// UpdateTask changes a task's description and/or completed flag.
func (c *Client) UpdateTask(ctx context.Context, id int64, upd service.TaskUpdate) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, http.MethodPut, taskPath(id), upd, &task)
	return task, err
}

// SetTaskCompleted sets a task's completed flag.
func (c *Client) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	_, err := c.UpdateTask(ctx, id, service.TaskUpdate{Completed: service.Bool(completed)})
	return err
}

// DeleteTask permanently deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func listPath(id int64) string { return fmt.Sprintf("/list/%d", id) }

func taskPath(id int64) string { return fmt.Sprintf("/%d", id) }
