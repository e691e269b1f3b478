package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/repository"

	"github.com/474420502/gcurl"
	"github.com/dop251/goja"
	"github.com/robfig/cron/v3"
)

// ImportService manages scheduled feed import tasks: an operator-supplied
// curl command fetches a product feed, an optional JavaScript snippet turns
// the response into a URL list, and each URL runs through the ingestion
// pipeline.
type ImportService struct {
	taskRepo      *repository.ImportTaskRepository
	executionRepo *repository.TaskExecutionRepository
	linkService   *LinkService
}

// NewImportService creates an import service
func NewImportService(linkService *LinkService) *ImportService {
	return &ImportService{
		taskRepo:      repository.NewImportTaskRepository(),
		executionRepo: repository.NewTaskExecutionRepository(),
		linkService:   linkService,
	}
}

// CreateTask validates and stores a new import task
func (s *ImportService) CreateTask(task *model.ImportTask) error {
	if err := s.validateTask(task); err != nil {
		return err
	}
	if task.Status == "" {
		task.Status = "stopped"
	}
	return s.taskRepo.Create(task)
}

// UpdateTask validates and saves task changes
func (s *ImportService) UpdateTask(task *model.ImportTask) error {
	if err := s.validateTask(task); err != nil {
		return err
	}
	return s.taskRepo.Update(task)
}

// GetTask returns a task by id
func (s *ImportService) GetTask(id uint) (*model.ImportTask, error) {
	return s.taskRepo.GetByID(id)
}

// ListTasks returns a page of tasks
func (s *ImportService) ListTasks(page, pageSize int) ([]model.ImportTask, int64, error) {
	return s.taskRepo.List(page, pageSize)
}

// DeleteTask removes a task and its history
func (s *ImportService) DeleteTask(id uint) error {
	return s.taskRepo.Delete(id)
}

// GetAllActive returns every active task
func (s *ImportService) GetAllActive() ([]model.ImportTask, error) {
	return s.taskRepo.GetAllActive()
}

// ListExecutions returns a page of a task's run history
func (s *ImportService) ListExecutions(taskID uint, page, pageSize int) ([]model.TaskExecution, int64, error) {
	return s.executionRepo.ListByTask(taskID, page, pageSize)
}

// MarkExpiredTasks flips tasks past their auto-destroy time to expired and
// returns them so the scheduler can drop their cron entries
func (s *ImportService) MarkExpiredTasks() ([]model.ImportTask, error) {
	expired, err := s.taskRepo.GetExpiredTasks()
	if err != nil {
		return nil, err
	}
	for i := range expired {
		if expired[i].Status == "expired" {
			continue
		}
		expired[i].Status = "expired"
		if err := s.taskRepo.Update(&expired[i]); err != nil {
			log.Printf("Failed to expire task %d: %v", expired[i].ID, err)
		}
	}
	return expired, nil
}

// ExecuteTask runs one import: fetch the feed, transform it into URLs, and
// push every URL through the ingestion pipeline. The execution record is
// updated no matter how the run ends, panics included.
func (s *ImportService) ExecuteTask(ctx context.Context, task *model.ImportTask) error {
	log.Printf("ExecuteTask: starting task %d: %s", task.ID, task.Name)

	execution := &model.TaskExecution{
		TaskID:    task.ID,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if err := s.executionRepo.Create(execution); err != nil {
		return fmt.Errorf("failed to create execution record: %w", err)
	}

	startTime := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ExecuteTask: panic recovered in task %d: %v", task.ID, r)
			err = fmt.Errorf("panic: %v", r)
		}

		duration := time.Since(startTime).Milliseconds()
		execution.ExecutionDuration = &duration
		now := time.Now()
		execution.FinishedAt = &now

		if err != nil {
			execution.Status = "failed"
			execution.ErrorMessage = err.Error()
			log.Printf("ExecuteTask: task %d failed: %v", task.ID, err)
		} else {
			execution.Status = "success"
			log.Printf("ExecuteTask: task %d completed, created %d links", task.ID, execution.CreatedCount)
		}

		if updateErr := s.executionRepo.Update(execution); updateErr != nil {
			log.Printf("ExecuteTask: failed to update execution record for task %d: %v", task.ID, updateErr)
		}
	}()

	rawData, err := s.ExecuteCurlCommand(task.CurlCommand)
	if err != nil {
		err = fmt.Errorf("curl execution failed: %w", err)
		return err
	}

	urls, err := s.TransformData(rawData, task.TransformScript)
	if err != nil {
		err = fmt.Errorf("data transformation failed: %w", err)
		return err
	}

	execution.URLsCount = len(urls)
	if len(urls) == 0 {
		log.Printf("ExecuteTask: task %d produced no URLs", task.ID)
		return nil
	}

	results := s.linkService.BulkProcess(ctx, urls, ProcessOptions{
		ExtractProductInfo: false,
		ValidateLink:       true,
		CreateShortURL:     true,
		CommissionRate:     task.CommissionRate,
	})

	for _, result := range results {
		execution.ProcessedCount++
		switch {
		case result == nil || result.Error != "":
			execution.FailedCount++
		case result.Link != nil:
			execution.CreatedCount++
		}
	}

	return nil
}

// TestTask runs a task configuration once, returning the URLs it would feed
// into the pipeline. Nothing is persisted, so operators can try a curl
// command and transform script before scheduling them.
func (s *ImportService) TestTask(curlCommand, transformScript string) ([]string, error) {
	rawData, err := s.ExecuteCurlCommand(curlCommand)
	if err != nil {
		return nil, err
	}
	if len(rawData) == 0 {
		return nil, fmt.Errorf("feed returned empty data")
	}
	return s.TransformData(rawData, transformScript)
}

// ExecuteCurlCommand parses and runs an operator-supplied curl command. A
// transport error with a body that still contains URLs is treated as
// success, because some feed hosts close connections abruptly.
func (s *ImportService) ExecuteCurlCommand(curlCommand string) (string, error) {
	curl, err := gcurl.Parse(curlCommand)
	if err != nil {
		return "", fmt.Errorf("failed to parse curl command: %w", err)
	}

	resp, err := curl.Request().Execute()
	if err != nil {
		if resp != nil {
			content := string(resp.Content())
			if strings.Contains(content, "http://") || strings.Contains(content, "https://") {
				log.Printf("ExecuteCurlCommand: request errored but response contains URLs, keeping data")
				return content, nil
			}
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}

	return string(resp.Content()), nil
}

// TransformData turns a raw feed response into a URL list. Without a script
// the data is parsed as a JSON string array or split into lines; with one,
// the script runs in a JavaScript VM with rawData in scope and must return
// an array of strings.
func (s *ImportService) TransformData(rawData string, script string) ([]string, error) {
	script = strings.TrimSpace(script)

	if script == "" || script == "return rawData;" {
		var jsonResult []string
		if err := json.Unmarshal([]byte(rawData), &jsonResult); err == nil && len(jsonResult) > 0 {
			return jsonResult, nil
		}

		lines := strings.Split(rawData, "\n")
		result := make([]string, 0)
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
				result = append(result, line)
			}
		}
		if len(result) > 0 {
			return result, nil
		}
		return nil, fmt.Errorf("failed to parse raw data: not a JSON string array and no URL lines found")
	}

	vm := goja.New()
	if err := vm.Set("rawData", rawData); err != nil {
		return nil, fmt.Errorf("failed to set rawData: %w", err)
	}

	// wrap plain statements in a function so return works
	wrappedScript := script
	isFunctionExpression := strings.HasPrefix(script, "(function") ||
		strings.HasPrefix(script, "(() =>") ||
		strings.HasPrefix(script, "(async function")
	if !isFunctionExpression {
		if strings.Contains(script, "return") {
			wrappedScript = "(function() { " + script + " })()"
		} else {
			wrappedScript = "(function() { " + script + "; return result || urls || []; })()"
		}
	}

	value, err := vm.RunString(wrappedScript)
	if err != nil {
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	var result []string
	if err := vm.ExportTo(value, &result); err == nil && len(result) > 0 {
		return result, nil
	}

	// fall back through JSON.stringify for array-like objects
	jsonValue := vm.Get("JSON")
	if jsonValue != nil {
		if stringify, ok := goja.AssertFunction(jsonValue.ToObject(vm).Get("stringify")); ok {
			if jsonStr, err := stringify(goja.Undefined(), value); err == nil {
				if err := json.Unmarshal([]byte(jsonStr.String()), &result); err == nil && len(result) > 0 {
					return result, nil
				}
			}
		}
	}

	return nil, fmt.Errorf("script did not return a string array")
}

func (s *ImportService) validateTask(task *model.ImportTask) error {
	if strings.TrimSpace(task.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	if strings.TrimSpace(task.CurlCommand) == "" {
		return fmt.Errorf("curl command is required")
	}
	if _, err := gcurl.Parse(task.CurlCommand); err != nil {
		return fmt.Errorf("invalid curl command: %w", err)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(task.CronExpression); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
