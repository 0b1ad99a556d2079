package ultradns

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type TaskCode string

const (
	TaskCodePending   TaskCode = "PENDING"
	TaskCodeInProcess TaskCode = "IN_PROCESS"
	TaskCodeComplete  TaskCode = "COMPLETE"
	TaskCodeError     TaskCode = "ERROR"
)

// Done reports whether the task stopped running.
func (c TaskCode) Done() bool {
	return c != TaskCodePending && c != TaskCodeInProcess
}

// Task is the status of a background operation.
type Task struct {
	TaskID    string   `json:"taskId"`
	Code      TaskCode `json:"code"`
	Message   string   `json:"message"`
	HasData   bool     `json:"hasData"`
	ResultURI string   `json:"resultUri"`
}

func taskPath(taskID string, extra ...string) string {
	return apiPath(append([]string{"v1", "tasks", taskID}, extra...)...)
}

func (c *Client) ListTasks(ctx context.Context, opts *ListOptions) (*Result, error) {
	return c.get(ctx, "/v1/tasks", opts.Values())
}

// GetTask returns the current status of a task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	task, _, err := c.getTask(ctx, taskID)
	return task, err
}

func (c *Client) getTask(ctx context.Context, taskID string) (*Task, *Result, error) {
	result, err := c.get(ctx, taskPath(taskID), nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get task")
	}

	var task Task
	if err := result.Decode(&task); err != nil {
		return nil, nil, err
	}

	if task.TaskID == "" {
		task.TaskID = taskID
	}

	return &task, result, nil
}

// GetTaskResult fetches the output of a completed task.
func (c *Client) GetTaskResult(ctx context.Context, taskID string) (*Result, error) {
	return c.get(ctx, taskPath(taskID, "result"), nil)
}

func (c *Client) ClearTask(ctx context.Context, taskID string) (*Result, error) {
	return c.send(ctx, http.MethodDelete, taskPath(taskID), nil)
}

type taskStatus struct {
	task   *Task
	result *Result
}

// waitTask polls the task until it leaves PENDING and IN_PROCESS.
func (c *Client) waitTask(ctx context.Context, taskID string) (*Task, *Result, error) {
	status, err := poll(ctx, c.poll, func(ctx context.Context) (taskStatus, bool, error) {
		task, result, err := c.getTask(ctx, taskID)
		if err != nil {
			return taskStatus{}, false, err
		}

		c.log.Debug("ultradns.task_status", zap.String("task_id", taskID), zap.String("code", string(task.Code)))
		return taskStatus{task: task, result: result}, task.Code.Done(), nil
	})

	if err != nil {
		return nil, nil, errors.Wrapf(err, "wait for task %s", taskID)
	}

	return status.task, status.result, nil
}

// WaitForTask waits for a task to finish.
// A completed task with data yields the data fetched from its result URI, otherwise the task status.
// A failed task yields its status together with a *TaskError.
func (c *Client) WaitForTask(ctx context.Context, taskID string) (*Result, error) {
	task, result, err := c.waitTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch {
	case task.Code == TaskCodeError:
		return result, &TaskError{Task: task}
	case task.Code == TaskCodeComplete && task.HasData && task.ResultURI != "":
		return c.get(ctx, task.ResultURI, nil)
	default:
		return result, nil
	}
}

// WaitForLocation polls a location returned by a 202 response until its state
// or status becomes COMPLETED or ERROR.
func (c *Client) WaitForLocation(ctx context.Context, location string) (*Result, error) {
	result, err := poll(ctx, c.poll, func(ctx context.Context) (*Result, bool, error) {
		result, err := c.get(ctx, location, nil)
		if err != nil {
			return nil, false, err
		}

		var status struct {
			State  string `json:"state"`
			Status string `json:"status"`
		}

		if err := result.Decode(&status); err != nil {
			return nil, false, err
		}

		return result, locationDone(status.State) || locationDone(status.Status), nil
	})

	return result, errors.Wrapf(err, "wait for %s", location)
}

func locationDone(state string) bool {
	switch strings.ToUpper(state) {
	case "COMPLETED", "ERROR":
		return true
	default:
		return false
	}
}

// Resolve waits for the background operation referenced by result, if any.
// Results without a task ID or location are returned as is.
func (c *Client) Resolve(ctx context.Context, result *Result) (*Result, error) {
	switch {
	case result == nil:
		return nil, nil
	case result.TaskID != "":
		return c.WaitForTask(ctx, result.TaskID)
	case result.Location != "":
		return c.WaitForLocation(ctx, result.Location)
	default:
		return result, nil
	}
}

// ExportZone exports a zone in BIND format. The export task is cleared afterwards.
func (c *Client) ExportZone(ctx context.Context, zone string) ([]byte, error) {
	result, err := c.send(ctx, http.MethodPost, "/v3/zones/export", map[string][]string{"zoneNames": {zone}})
	if err != nil {
		return nil, errors.Wrap(err, "start export")
	}

	taskID := result.TaskID
	if taskID == "" {
		var body struct {
			TaskID string `json:"taskId"`
		}

		if err := result.Decode(&body); err != nil {
			return nil, err
		}

		taskID = body.TaskID
	}

	if taskID == "" {
		return nil, errors.New("export did not return a task id")
	}

	task, _, err := c.waitTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Code == TaskCodeError {
		if _, err := c.ClearTask(ctx, taskID); err != nil {
			c.log.Warn("ultradns.clear_task_failed", zap.String("task_id", taskID), zap.Error(err))
		}

		return nil, &TaskError{Task: task}
	}

	result, err = c.GetTaskResult(ctx, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "get export result")
	}

	if _, err := c.ClearTask(ctx, taskID); err != nil {
		return nil, errors.Wrap(err, "clear task")
	}

	return result.Body, nil
}
