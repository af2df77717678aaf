package convert

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"portfolio/logger"
	"portfolio/options"
	"portfolio/parallel"
	"portfolio/stats"
	"portfolio/util"
)

type Expression struct {
	Line  int
	Infix string
}

type Result struct {
	Expression
	Postfix   []string
	Operators []string
	Err       error
}

// ReadExpressions returns the non-blank lines of r, keeping their line numbers.
func ReadExpressions(r io.Reader) ([]Expression, error) {
	var expressions []Expression
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		expressions = append(expressions, Expression{Line: line, Infix: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return expressions, nil
}

// Batch converts every expression on a pool of workers. Results keep the
// input order and each conversion gets its own operator stack.
func Batch(expressions []Expression, workers int) []Result {
	results := make([]Result, len(expressions))
	queue := parallel.CreateJobQueue(len(expressions), workers)
	defer queue.Close()

	for i, expression := range expressions {
		err := queue.Add(func() {
			results[i] = convertOne(expression)
		})
		if err != nil {
			results[i] = Result{Expression: expression, Err: err}
		}
	}
	queue.Wait()
	return results
}

func convertOne(expression Expression) Result {
	result := Result{Expression: expression}
	result.Postfix, result.Err = ConvertTokens(strings.Fields(expression.Infix), util.NewStack[string]())
	for _, token := range result.Postfix {
		if !IsOperand(token) {
			result.Operators = append(result.Operators, token)
		}
	}
	return result
}

// WriteResults writes one tab separated line per result.
func WriteResults(w io.Writer, results []Result) error {
	writer := bufio.NewWriter(w)
	for _, result := range results {
		var err error
		if result.Err != nil {
			_, err = fmt.Fprintf(writer, "%v\terror: %v\n", result.Infix, result.Err)
		} else {
			_, err = fmt.Fprintf(writer, "%v\t%v\n", result.Infix, strings.Join(result.Postfix, " "))
		}
		if err != nil {
			return err
		}
	}
	return writer.Flush()
}

func Summarize(results []Result) *stats.BatchStats {
	summary := stats.NewBatchStats()
	for _, result := range results {
		if result.Err != nil {
			summary.AddFailed()
		} else {
			summary.AddConverted(result.Operators)
		}
	}
	summary.Finalize()
	return summary
}

// Run converts the expressions of opts.InputPath and writes them to
// opts.OutputPath. All lines are written even when some fail; failures are
// then reported with ERROR_CONVERSION_FAILED.
func Run(opts *options.ConvertOptions, log logger.Logger) error {
	input, closeInput, err := openInput(opts.InputPath)
	if err != nil {
		return &util.ErrorWithCode{
			StatusCode:    util.ERROR_BAD_INPUT_PATH,
			InternalError: err,
		}
	}
	defer closeInput()

	expressions, err := ReadExpressions(input)
	if err != nil {
		return fmt.Errorf("failed to read expressions from '%v': %w", opts.InputPath, err)
	}
	log.Debug("read expressions", zap.String("input", opts.InputPath), zap.Int("count", len(expressions)))

	results := Batch(expressions, opts.Workers)

	for _, result := range results {
		if result.Err != nil {
			log.Warn("conversion failed",
				zap.Int("line", result.Line),
				zap.String("infix", result.Infix),
				zap.Error(result.Err))
		}
	}

	err = writeTo(opts.OutputPath, func(w io.Writer) error {
		return WriteResults(w, results)
	})
	if err != nil {
		return &util.ErrorWithCode{
			StatusCode:    util.ERROR_BAD_OUTPUT_PATH,
			InternalError: fmt.Errorf("failed to write results to '%v': %w", opts.OutputPath, err),
		}
	}

	summary := Summarize(results)
	if len(opts.StatsPath) > 0 {
		err = writeTo(opts.StatsPath, func(w io.Writer) error {
			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			return encoder.Encode(summary)
		})
		if err != nil {
			return &util.ErrorWithCode{
				StatusCode:    util.ERROR_BAD_OUTPUT_PATH,
				InternalError: fmt.Errorf("failed to write stats to '%v': %w", opts.StatsPath, err),
			}
		}
	}

	log.Info("converted expressions",
		zap.Int("total", summary.Total),
		zap.Int("converted", summary.Converted),
		zap.Int("failed", summary.Failed))

	if summary.Failed > 0 {
		return &util.ErrorWithCode{
			StatusCode:    util.ERROR_CONVERSION_FAILED,
			InternalError: fmt.Errorf("%v of %v expressions could not be converted", summary.Failed, summary.Total),
		}
	}
	return nil
}

func openInput(inputPath string) (io.Reader, func(), error) {
	if inputPath == options.StdStream {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

func writeTo(outputPath string, write func(io.Writer) error) (err error) {
	if outputPath == options.StdStream {
		return write(os.Stdout)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return write(file)
}
