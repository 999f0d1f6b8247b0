package sssg

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"sync"
)

// Statistics tallies game results per agent, in the order agents were first seen.
type Statistics struct {
	mu       sync.Mutex
	Creation []string
	Wins     map[string]int
	Losses   map[string]int
	Draws    map[string]int
	Plies    map[string]int
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 2),
		Wins:     make(map[string]int),
		Losses:   make(map[string]int),
		Draws:    make(map[string]int),
		Plies:    make(map[string]int),
	}
}

func (s *Statistics) update(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range []string{o.Max, o.Min} {
		if _, ok := s.Plies[name]; !ok {
			s.Creation = append(s.Creation, name)
		}
		s.Plies[name] += o.Plies
	}
	switch winner := o.Winner(); winner {
	case "":
		s.Draws[o.Max]++
		s.Draws[o.Min]++
	case o.Max:
		s.Wins[o.Max]++
		s.Losses[o.Min]++
	default:
		s.Wins[o.Min]++
		s.Losses[o.Max]++
	}
}

// Games returns the number of games the agent played.
func (s *Statistics) Games(agent string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Wins[agent] + s.Losses[agent] + s.Draws[agent]
}

// WriteCSV writes one record per agent: name, wins, losses, draws, win rate.
func (s *Statistics) WriteCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"agent", "wins", "losses", "draws", "win_rate"}); err != nil {
		return err
	}
	for _, agent := range s.Creation {
		win, loss, draw := s.Wins[agent], s.Losses[agent], s.Draws[agent]
		var winRate float64
		if games := win + loss + draw; games > 0 {
			winRate = float64(win) / float64(games)
		}
		record := []string{
			agent,
			strconv.Itoa(win),
			strconv.Itoa(loss),
			strconv.Itoa(draw),
			strconv.FormatFloat(winRate, 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Dump writes the statistics as CSV to filename.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if err = s.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
