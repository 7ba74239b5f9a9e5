// Package benchmark 对运行中的接口做并发压测，统计耗时与状态码分布。
package benchmark

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIBenchmark 并发压测配置
type APIBenchmark struct {
	Concurrency int
	Requests    int
	client      *resty.Client
}

// BenchmarkResult 单个接口的压测结果
type BenchmarkResult struct {
	Path           string        `json:"path"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

type requestResult struct {
	duration   time.Duration
	statusCode int
	err        error
}

// NewAPIBenchmark 创建压测实例，baseURL 形如 http://host:port/api
func NewAPIBenchmark(baseURL string, concurrency, requests int) *APIBenchmark {
	if concurrency < 1 {
		concurrency = 1
	}
	return &APIBenchmark{
		Concurrency: concurrency,
		Requests:    requests,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

// Login 登录并在后续请求中携带令牌
func (b *APIBenchmark) Login(username, password string) error {
	var out struct {
		Code  int    `json:"code"`
		Msg   string `json:"msg"`
		Token string `json:"token"`
	}
	resp, err := b.client.R().
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		SetError(&out).
		Post("/login")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK || out.Token == "" {
		return fmt.Errorf("登录失败: %d %s", resp.StatusCode(), out.Msg)
	}
	b.client.SetAuthToken(out.Token)
	return nil
}

// RunGET 压测 GET 接口
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.run(http.MethodGet, path, nil)
}

// RunPOST 压测 POST 接口，payload 每次请求都会重新序列化
func (b *APIBenchmark) RunPOST(path string, payload interface{}) *BenchmarkResult {
	return b.run(http.MethodPost, path, payload)
}

func (b *APIBenchmark) run(method, path string, payload interface{}) *BenchmarkResult {
	results := make(chan requestResult, b.Requests)
	limiter := make(chan struct{}, b.Concurrency)
	var wg sync.WaitGroup

	startTime := time.Now()
	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			req := b.client.R()
			if payload != nil {
				req.SetBody(payload)
			}
			start := time.Now()
			resp, err := req.Execute(method, path)
			if err != nil {
				results <- requestResult{err: err}
				return
			}
			results <- requestResult{duration: time.Since(start), statusCode: resp.StatusCode()}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return b.collect(method, path, startTime, results)
}

func (b *APIBenchmark) collect(method, path string, startTime time.Time, results <-chan requestResult) *BenchmarkResult {
	result := &BenchmarkResult{
		Path:          path,
		Method:        method,
		Concurrency:   b.Concurrency,
		TotalRequests: b.Requests,
		MinTime:       time.Duration(1<<63 - 1),
		StatusCodes:   make(map[int]int),
	}

	var totalTime time.Duration
	for r := range results {
		if r.err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, r.err.Error())
			continue
		}
		totalTime += r.duration
		if r.duration < result.MinTime {
			result.MinTime = r.duration
		}
		if r.duration > result.MaxTime {
			result.MaxTime = r.duration
		}
		result.StatusCodes[r.statusCode]++
		if r.statusCode >= 200 && r.statusCode < 300 {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}

	result.TotalTime = time.Since(startTime)
	if result.TotalTime > 0 {
		result.RequestsPerSec = float64(b.Requests) / result.TotalTime.Seconds()
	}
	if done := result.SuccessCount + result.FailureCount; done > 0 {
		result.AverageTime = totalTime / time.Duration(done)
	}
	if result.MaxTime == 0 {
		result.MinTime = 0
	}
	return result
}

// Err 存在失败请求时返回错误
func (r *BenchmarkResult) Err() error {
	if r.FailureCount == 0 {
		return nil
	}
	rate := float64(r.SuccessCount) / float64(r.TotalRequests) * 100
	msg := fmt.Sprintf("%s %s 成功率 %.2f%%", r.Method, r.Path, rate)
	if len(r.Errors) > 0 {
		msg += ": " + r.Errors[0]
	}
	return errors.New(msg)
}

// PrintResult 输出压测结果
func (r *BenchmarkResult) PrintResult(w io.Writer) {
	fmt.Fprintf(w, "%s %s 并发 %d 请求 %d\n", r.Method, r.Path, r.Concurrency, r.TotalRequests)
	fmt.Fprintf(w, "  成功 %d 失败 %d 总耗时 %s\n", r.SuccessCount, r.FailureCount, r.TotalTime)
	fmt.Fprintf(w, "  平均 %s 最小 %s 最大 %s 每秒 %.2f\n", r.AverageTime, r.MinTime, r.MaxTime, r.RequestsPerSec)

	codes := make([]int, 0, len(r.StatusCodes))
	for c := range r.StatusCodes {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	for _, c := range codes {
		fmt.Fprintf(w, "  %d: %d\n", c, r.StatusCodes[c])
	}
	for i, err := range r.Errors {
		if i >= 5 {
			fmt.Fprintf(w, "  ... 还有 %d 个错误\n", len(r.Errors)-5)
			break
		}
		fmt.Fprintf(w, "  %s\n", err)
	}
}
