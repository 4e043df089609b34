package cli

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var stressCmd = &cobra.Command{
	Use:   "stress [duration]",
	Short: "Load all CPU cores to watch the temperature respond",
	Long: `Load every CPU core for the given duration (default 60s) so the
applet's reading can be watched rising. Uses stress-ng when installed,
otherwise a built-in burner.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duration := 60 * time.Second
		if len(args) > 0 {
			if d, err := time.ParseDuration(args[0]); err == nil {
				duration = d
			} else if secs, err := strconv.Atoi(args[0]); err == nil {
				duration = time.Duration(secs) * time.Second
			} else {
				return fmt.Errorf("bad duration %q (try 30s, 2m or plain seconds)", args[0])
			}
		}
		if duration < time.Second {
			duration = time.Second
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		secs := int(duration.Seconds())
		fmt.Printf("Stressing CPU for %ds (Ctrl+C stops early)\n", secs)

		if _, err := exec.LookPath("stress-ng"); err == nil {
			return runStressNG(secs, sigCh)
		}
		burnCPU(duration, sigCh)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stressCmd)
}

func runStressNG(secs int, sigCh chan os.Signal) error {
	cpus := runtime.NumCPU()
	fmt.Printf("  stress-ng --cpu %d --timeout %ds\n", cpus, secs)

	cmd := exec.Command("stress-ng",
		"--cpu", strconv.Itoa(cpus),
		"--timeout", fmt.Sprintf("%ds", secs))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start stress-ng: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("stress-ng: %w", err)
		}
		fmt.Println("  completed")
	case <-sigCh:
		cmd.Process.Signal(syscall.SIGTERM)
		time.Sleep(200 * time.Millisecond)
		cmd.Process.Kill()
		fmt.Println("\n  interrupted")
	}
	return nil
}

func burnCPU(d time.Duration, sigCh chan os.Signal) {
	cpus := runtime.NumCPU()
	fmt.Printf("  stress-ng not found, burning %d cores with the built-in loop\n", cpus)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
		case <-time.After(d):
		}
		close(done)
	}()

	for i := 0; i < cpus; i++ {
		go func() {
			x := 0.0
			for {
				select {
				case <-done:
					return
				default:
					x += 1.1
					x *= 0.9
				}
			}
		}()
	}

	<-done
	fmt.Println("  done")
}
