package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rag_data_generator/config"
	"rag_data_generator/logger"
	"rag_data_generator/orchestrator"
	"rag_data_generator/server"
	"rag_data_generator/writer"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional; defaults + RAGGEN_* env apply)")
	serve := flag.Bool("serve", false, "start the control server instead of a one-shot run")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	records := flag.Int("records", 0, "override max_records for a one-shot run")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *records > 0 {
		cfg.MaxRecords = *records
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	logger.Init(level, cfg.LogFormat)
	log := logger.Default()

	orch := orchestrator.New(orchestrator.WithLogger(log))

	// Web server mode
	if *serve {
		srv, err := server.New(orch, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		if listen == "" {
			listen = ":8080"
		}
		log.Info("starting control server", "addr", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// One-shot mode: run one generation batch in the foreground.
	params, intents, solutions, rw, err := server.BuildRun(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Info("starting generation",
		"target_records", cfg.MaxRecords,
		"output_dir", cfg.OutputDir,
		"web_format", cfg.WebFormat,
		"existing_records", writer.CountExisting(cfg.OutputDir),
		"domain", cfg.Domain,
		"skill_level", cfg.SkillLevel,
		"focus", cfg.Focus,
		"languages", cfg.Languages,
	)

	if err := orch.Start(params, intents, solutions, rw); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Ctrl+C / SIGTERM 触发协作式停止，当前单元收尾后退出。
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, shutting down gracefully", "signal", sig.String())
		_ = orch.Stop()
	}()

	orch.Wait()
	st := orch.Status()
	log.Info("generation finished",
		"reason", string(st.StopReason),
		"records_written", st.RecordsWritten,
		"total_attempts", st.TotalAttempts,
	)
	if st.StopReason == orchestrator.ReasonFailureThreshold {
		os.Exit(1)
	}
}
