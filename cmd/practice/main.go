// Interactive practice session from the terminal: opens the voice
// session, streams audio, prints the live transcript, and requests
// feedback when the session ends.
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/marcusbk37/go-roleplay/internal/config"
	"github.com/marcusbk37/go-roleplay/internal/log"
	"github.com/marcusbk37/go-roleplay/pkg/audio"
	"github.com/marcusbk37/go-roleplay/pkg/evi"
	"github.com/marcusbk37/go-roleplay/pkg/feedback"
	"github.com/marcusbk37/go-roleplay/pkg/llm/anthropic"
	"github.com/marcusbk37/go-roleplay/pkg/retrieval"
	"github.com/marcusbk37/go-roleplay/pkg/scenario"
	"github.com/marcusbk37/go-roleplay/pkg/session"
)

func main() {
	scenarioID := flag.String("scenario", "difficult-performance-review", "Scenario id to practice")
	duration := flag.Duration("duration", 0, "Auto-end the session after this duration (0 = run until interrupted)")
	listScenarios := flag.Bool("list", false, "List available scenarios and exit")
	flag.Parse()

	if *listScenarios {
		for _, sc := range scenario.List() {
			fmt.Printf("%-32s %-22s %s\n", sc.ID, sc.Type, sc.Title)
		}
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}
	log.Init(cfg.Log.Level)

	llm, err := anthropic.NewClient(cfg.Anthropic.APIKey)
	if err != nil {
		stdlog.Fatalf("anthropic client: %v", err)
	}
	analyzer := feedback.NewAnalyzer(llm,
		feedback.WithModel(cfg.Anthropic.Model),
		feedback.WithMaxTokens(cfg.Anthropic.MaxTokens),
		feedback.WithRetriever(retrieval.NewPinecone(
			cfg.Pinecone.APIKey,
			cfg.Pinecone.IndexHost,
			cfg.Pinecone.Namespace,
		)),
	)

	creds := func(string) (evi.Credentials, error) {
		if cfg.Voice.APIKey == "" {
			return evi.Credentials{}, evi.ErrMissingAPIKey
		}
		return evi.Credentials{
			APIKey:    cfg.Voice.APIKey,
			SecretKey: cfg.Voice.SecretKey,
			ConfigID:  cfg.Voice.ConfigID,
		}, nil
	}

	audioCfg := audio.DefaultConfig()
	factories := session.Factories{
		NewSession: func() evi.Session { return evi.NewClient() },
		NewCapture: func(ctx context.Context) (session.Capturer, error) {
			codec, err := audio.NewCodec(audioCfg)
			if err != nil {
				return nil, err
			}
			src := audio.NewMockSource(audioCfg, log.Component("mic"),
				audio.WithSineWave(440, 0.2))
			return audio.NewCapture(ctx, audioCfg, src, codec, nil, log.Component("capture"))
		},
		NewPlayer: func() (session.Player, error) {
			codec, err := audio.NewCodec(audioCfg)
			if err != nil {
				return nil, err
			}
			return audio.NewQueue(codec, audio.NewMockSink(), log.Component("playback")), nil
		},
	}

	orch := session.NewOrchestrator(creds, analyzer, factories, printSink{})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec, err := orch.StartSession(ctx, *scenarioID)
	if err != nil {
		stdlog.Fatalf("start session: %v", err)
	}
	fmt.Printf("Session %s started (%s). Press Ctrl-C to end.\n", rec.ID, *scenarioID)

	if *duration > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(*duration):
		}
	} else {
		<-ctx.Done()
	}

	// endCtx outlives the signal context so analysis can finish.
	endCtx, endCancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer endCancel()

	rec, err = orch.EndSession(endCtx)
	if err != nil {
		stdlog.Fatalf("end session: %v", err)
	}
	printResult(rec)
}

// printSink writes live events to stdout.
type printSink struct{}

func (printSink) Publish(ev session.Event) {
	switch ev.Type {
	case "transcript":
		fmt.Printf("[%6.1fs] %s: %s\n", ev.Offset, ev.Speaker, ev.Text)
	case "error":
		fmt.Fprintf(os.Stderr, "session error: %s\n", ev.Error)
	}
}

func printResult(rec *session.Record) {
	if rec.Analysis == nil {
		fmt.Println("\nSession ended with no transcript; nothing to analyze.")
		return
	}
	a := rec.Analysis
	if a.Degraded {
		fmt.Println("\nFeedback unavailable for this session, please retry.")
		return
	}
	fmt.Printf("\nOverall score: %d/100 (%s)\n", a.OverallScore, a.Sentiment)
	fmt.Println("\nWhat went well:")
	for _, p := range a.Positives {
		fmt.Printf("  + %s\n", p)
	}
	fmt.Println("\nAreas to improve:")
	for _, im := range a.Improvements {
		fmt.Printf("  - %s\n", im)
	}
	if len(a.NextSteps) > 0 {
		fmt.Println("\nNext steps:")
		for _, n := range a.NextSteps {
			fmt.Printf("  * %s\n", n)
		}
	}
}
