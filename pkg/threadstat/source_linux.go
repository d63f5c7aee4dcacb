//go:build linux

package threadstat

import (
	"fmt"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// DefaultWindow is the delta-sampling interval used to turn cumulative
// thread CPU times into a percentage.
const DefaultWindow = 500 * time.Millisecond

// ProcSource reads thread CPU times from /proc via gopsutil, twice per
// call, and reports the busy percentage over the sampling window.
type ProcSource struct {
	Window   time.Duration
	Launcher string
}

// NewSource returns a ProcSource with default window and launcher name.
func NewSource() *ProcSource {
	return &ProcSource{
		Window:   DefaultWindow,
		Launcher: JVMLauncher,
	}
}

type procInfo struct {
	proc    *process.Process
	user    string
	command string
}

// List implements Source.
func (s *ProcSource) List(targetPID int) ([]Sample, error) {
	procs, err := s.candidates(targetPID)
	if err != nil {
		return nil, err
	}
	if len(procs) == 0 {
		return nil, nil
	}

	before := make(map[int]map[int32]*cpu.TimesStat, len(procs))
	for _, p := range procs {
		threads, err := p.proc.Threads()
		if err != nil {
			continue
		}
		before[int(p.proc.Pid)] = threads
	}

	window := s.Window
	if window <= 0 {
		window = DefaultWindow
	}
	time.Sleep(window)

	var samples []Sample
	for _, p := range procs {
		first, ok := before[int(p.proc.Pid)]
		if !ok {
			continue
		}
		second, err := p.proc.Threads()
		if err != nil {
			// Process exited mid-window; its threads are gone.
			continue
		}

		tids := make([]int32, 0, len(second))
		for tid := range second {
			tids = append(tids, tid)
		}
		sort.Slice(tids, func(i, j int) bool { return tids[i] < tids[j] })

		for _, tid := range tids {
			cur := second[tid]
			total := cur.User + cur.System
			var busy float64
			if prev, ok := first[tid]; ok {
				busy = total - (prev.User + prev.System)
			}
			if busy < 0 {
				busy = 0
			}
			samples = append(samples, Sample{
				PID:        int(p.proc.Pid),
				TID:        int(tid),
				User:       p.user,
				Command:    p.command,
				CPUPercent: busy / window.Seconds() * 100,
				CPUTime:    time.Duration(total * float64(time.Second)),
			})
		}
	}
	return samples, nil
}

// candidates resolves the processes to sample: the one target, or every
// process named after the JVM launcher.
func (s *ProcSource) candidates(targetPID int) ([]procInfo, error) {
	launcher := s.Launcher
	if launcher == "" {
		launcher = JVMLauncher
	}

	if targetPID > 0 {
		p, err := process.NewProcess(int32(targetPID))
		if err != nil {
			// Already exited: an empty snapshot, not an error.
			return nil, nil
		}
		return []procInfo{describe(p)}, nil
	}

	all, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("cannot list processes: %w", err)
	}

	var procs []procInfo
	for _, p := range all {
		if p == nil || p.Pid <= 0 {
			continue
		}
		name, err := p.Name()
		if err != nil || name != launcher {
			continue
		}
		procs = append(procs, describe(p))
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].proc.Pid < procs[j].proc.Pid })
	return procs, nil
}

func describe(p *process.Process) procInfo {
	info := procInfo{proc: p}
	if user, err := p.Username(); err == nil {
		info.user = user
	}
	if name, err := p.Name(); err == nil && name != "" {
		info.command = name
	} else if cmdline, err := p.Cmdline(); err == nil {
		info.command = cmdline
	}
	return info
}
