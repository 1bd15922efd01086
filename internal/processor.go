package internal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rm-hull/affine-warp/internal/models/job"
	"github.com/rm-hull/affine-warp/internal/png"
	"github.com/rm-hull/affine-warp/internal/png/stage"
	"github.com/rm-hull/affine-warp/internal/transform"
)

// Processor runs every manifest found in an inbox directory through a pool of
// workers, writing results to an output directory.
type Processor struct {
	startTime   time.Time
	endTime     time.Time
	inboxDir    string
	outDir      string
	poolSize    int
	warpWorkers int
	jobs        chan string
	results     chan error
	client      SourceClient
	manifests   []string
}

func NewProcessor(inboxDir, outDir string, poolSize, warpWorkers int) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	startTime := time.Now()

	manifests, err := filepath.Glob(filepath.Join(inboxDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests in %s: %w", inboxDir, err)
	}
	sort.Strings(manifests)
	log.Printf("Inbox %s contains %d manifests", inboxDir, len(manifests))

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Processor{
		startTime:   startTime,
		inboxDir:    inboxDir,
		outDir:      outDir,
		poolSize:    poolSize,
		warpWorkers: warpWorkers,
		jobs:        make(chan string),
		results:     make(chan error),
		client:      NewSourceClient(inboxDir),
		manifests:   manifests,
	}, nil
}

// Run processes all manifests and returns the errors of the failed ones.
func (p *Processor) Run() []error {
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}

// DispatchJobs sends manifests to the jobs channel for processing by workers.
func (p *Processor) DispatchJobs() {
	go func() {
		for _, manifest := range p.manifests {
			p.jobs <- manifest
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Printf("Starting processing manifests with pool size: %d", p.poolSize)

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Printf("Worker %d started", i)
	for manifest := range p.jobs {
		err := p.processManifest(manifest)
		if err != nil {
			err = fmt.Errorf("%s: %w", filepath.Base(manifest), err)
		}
		p.results <- err
	}
	log.Printf("Worker %d finished", i)
}

func (p *Processor) processManifest(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	m, err := job.Decode(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	filename := filepath.Join(p.outDir, m.Output)

	// if the output already exists, skip processing
	if _, err := os.Stat(filename); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	affine, err := transform.Estimate(m.Points)
	if err != nil {
		return err
	}

	stages, err := stage.ForManifest(m, affine, p.warpWorkers)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	inFile, err := p.client.Open(m.Source)
	if err != nil {
		return err
	}
	img, err := png.NewPngFromReader(inFile)
	_ = inFile.Close()
	if err != nil {
		return err
	}
	source := img.Img

	if err := img.Pipeline(stages...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	if err := WriteAtomic(filename, img.Write); err != nil {
		return err
	}

	if m.Compare {
		data, err := Compare(source, affine, m.Options(p.warpWorkers))
		if err != nil {
			return fmt.Errorf("failed to build comparison: %w", err)
		}
		compareFile := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".compare.png"
		err = WriteAtomic(compareFile, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
		if err != nil {
			return err
		}
	}

	log.Printf("Wrote %s", filename)
	return nil
}

func (p *Processor) Wait() []error {
	waitFor := len(p.manifests)
	log.Printf("Waiting for %d manifests to be processed", waitFor)

	errs := make([]error, 0, 10)
	for range waitFor {
		err := <-p.results
		if err != nil {
			errs = append(errs, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Printf("All manifests processed in %s (errors=%d)", elapsed, len(errs))
	return errs
}

// WriteAtomic writes to a temporary file alongside filename and renames it
// into place once write succeeds, so readers never see a partial file.
func WriteAtomic(filename string, write func(w io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), "warp-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := write(tmpFile); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false // Successfully renamed, don't delete
	return nil
}
