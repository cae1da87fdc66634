package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second
	gracefulEnvironKey  = "IS_GRACEFUL"
	gracefulListenerFD  = 3
)

// GraceServer serves HTTP with graceful shutdown on SIGTERM and zero-downtime
// restart on SIGUSR2 (the new process inherits the listener fd).
func GraceServer(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	ln, err := listen(addr)
	if err != nil {
		return err
	}

	shutdownDone := make(chan struct{})
	go handleSignals(srv, ln, shutdownDone)

	err = srv.Serve(ln)
	<-shutdownDone
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// listen reuses the inherited listener when this process was spawned by a
// graceful restart, otherwise it binds a fresh one.
func listen(addr string) (net.Listener, error) {
	if os.Getenv(gracefulEnvironKey) != "" {
		file := os.NewFile(gracefulListenerFD, "")
		ln, err := net.FileListener(file)
		if err != nil {
			return nil, fmt.Errorf("net.FileListener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen: %w", err)
	}
	return ln, nil
}

func handleSignals(srv *http.Server, ln net.Listener, done chan<- struct{}) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)

	for sig := range sigs {
		switch sig {
		case syscall.SIGTERM, syscall.SIGINT:
			Sugar.Infof("received %s, shutting down HTTP server", sig)
			shutdown(srv, done)
			return
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			pid, err := forkChild(ln)
			if err != nil {
				Sugar.Errorf("graceful restart failed: %v, continue serving", err)
				continue
			}
			Sugar.Infof("spawned replacement process pid=%d", pid)
			shutdown(srv, done)
			return
		}
	}
}

func shutdown(srv *http.Server, done chan<- struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown complete")
	}
	close(done)
}

// forkChild re-execs the binary, handing it the listener as fd 3.
func forkChild(ln net.Listener) (int, error) {
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("get listener file: %w", err)
	}

	env := []string{}
	for _, e := range os.Environ() {
		if e != gracefulEnvironKey+"=1" {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvironKey+"=1")

	attr := &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	}
	pid, err := syscall.ForkExec(os.Args[0], os.Args, attr)
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}
