package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"go.uber.org/zap"

	"github.com/intakeflow/intakeflow/config"
	"github.com/intakeflow/intakeflow/intake"
	"github.com/intakeflow/intakeflow/policy"
	"github.com/intakeflow/intakeflow/sink"
	"github.com/intakeflow/intakeflow/types"
)

func main() {
	confPath := flag.String("config", "", "path to YAML config file")
	formID := flag.String("form", "employment_onboarding", "form id to run")
	mode := flag.String("mode", "", "override mode: speed, quality or hybrid")
	flag.Parse()

	if err := run(context.Background(), *confPath, *formID, *mode); err != nil {
		log.Fatalf("intake: %v", err)
	}
}

func run(ctx context.Context, confPath, formID, modeOverride string) error {
	cfg, err := config.Load(confPath)
	if err != nil {
		return err
	}
	if modeOverride != "" {
		cfg.Mode = modeOverride
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry, err := builtinForms()
	if err != nil {
		return err
	}
	form, err := registry.Load(formID)
	if err != nil {
		return err
	}

	outputs, err := buildSinks(cfg)
	if err != nil {
		return err
	}

	opts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithSelector(policy.NewSelector(cfg.PolicyConfig())),
		intake.WithMaxClarifications(cfg.MaxClarifications),
		intake.WithSink(outputs),
	}

	var flow *intake.Flow
	if cfg.Model.APIKey == "" {
		if cfg.SessionMode() != types.ModeSpeed {
			logger.Warn("no model api key configured, running deterministic strategies only")
		}
		flow, err = intake.NewFlow(intake.Strategies{}, opts...)
	} else {
		var cm *openai.ChatModel
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.Model.APIKey,
			Model:   cfg.Model.Model,
			BaseURL: cfg.Model.BaseURL,
		})
		if err != nil {
			return err
		}
		flow, err = intake.NewToolBasedFlow(cm, cfg.ModelTimeout(), opts...)
	}
	if err != nil {
		return err
	}

	session, err := intake.NewSession(form, cfg.SessionMode())
	if err != nil {
		return err
	}

	question, err := flow.Open(ctx, session)
	if err != nil {
		return err
	}
	fmt.Printf("assistant: %s\n", question)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("you: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("input closed, exiting")
			return nil
		}
		turn, tErr := flow.Submit(ctx, session, strings.TrimSpace(input))
		if tErr != nil {
			return tErr
		}
		fmt.Printf("assistant: %s\n", turn.Message)
		if turn.Done {
			if turn.SaveErr != nil {
				fmt.Printf("some outputs failed: %v\n", turn.SaveErr)
			}
			if turn.SavedTo != "" {
				fmt.Printf("saved: %s\n", turn.SavedTo)
			}
			return nil
		}
	}
}

func buildSinks(cfg *config.Config) (sink.Sink, error) {
	var sinks []sink.Sink

	jsonSink, err := sink.NewJSONFile(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	sinks = append(sinks, jsonSink)

	csvPath := cfg.Output.CSVPath
	if csvPath == "" {
		csvPath = filepath.Join(cfg.Output.Dir, "submissions.csv")
	}
	csvSink, err := sink.NewCSVFile(csvPath)
	if err != nil {
		return nil, err
	}
	sinks = append(sinks, csvSink)

	if cfg.Output.SQLitePath != "" {
		dbSink, dbErr := sink.NewSQLite(cfg.Output.SQLitePath)
		if dbErr != nil {
			return nil, dbErr
		}
		sinks = append(sinks, dbSink)
	}
	if cfg.Output.WebhookURL != "" {
		sinks = append(sinks, sink.NewWebhook(cfg.Output.WebhookURL, nil))
	}
	return sink.NewMulti(sinks...), nil
}
