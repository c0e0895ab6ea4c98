package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"cloudeng.io/errors"
	"github.com/subtlepseudonym/sunup"
	"gopkg.in/yaml.v3"
)

// DefaultListen is used when the config does not name an address.
const DefaultListen = ":9000"

type Location struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type Config struct {
	Location  Location `yaml:"location"`
	UTCOffset float64  `yaml:"utc_offset"` // hours east of Greenwich, standard time
	DST       bool     `yaml:"dst"`
	Iterative bool     `yaml:"iterative"`
	Listen    string   `yaml:"listen"`
	Jobs      []Job    `yaml:"jobs"`
}

// Job fires at a sun event, shifted by Offset. Offset is a Go duration
// such as "-30m"; negative offsets fire before the event.
type Job struct {
	Name   string `yaml:"name"`
	Event  string `yaml:"event"` // sunrise, noon or sunset
	Offset string `yaml:"offset,omitempty"`
}

// Open reads a YAML config file. JSON files are valid YAML and load
// too. Unknown fields are rejected.
func Open(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a config from data.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var config Config
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	if config.Listen == "" {
		config.Listen = DefaultListen
	}
	return &config, nil
}

// Observer returns the configured observer.
func (c *Config) Observer() sunup.Observer {
	return sunup.Observer{
		Latitude:  c.Location.Latitude,
		Longitude: c.Location.Longitude,
		UTCOffset: c.UTCOffset,
		DST:       c.DST,
	}
}

// Options returns the configured computation options.
func (c *Config) Options() sunup.Options {
	return sunup.Options{IterativeRefine: c.Iterative}
}

// Validate reports every problem with the config.
func (c *Config) Validate() error {
	var errs errors.M
	errs.Append(c.Observer().Validate())

	names := make(map[string]bool)
	for i, job := range c.Jobs {
		if job.Name == "" {
			errs.Append(fmt.Errorf("job %d: missing name", i))
		} else if names[job.Name] {
			errs.Append(fmt.Errorf("job %d: duplicate name %q", i, job.Name))
		}
		names[job.Name] = true

		if _, _, err := job.Parse(); err != nil {
			errs.Append(fmt.Errorf("job %q: %w", job.Name, err))
		}
	}
	return errs.Err()
}

// Parse returns the job's event and offset.
func (j Job) Parse() (sunup.Event, time.Duration, error) {
	event, err := sunup.ParseEvent(j.Event)
	if err != nil {
		return 0, 0, err
	}
	var offset time.Duration
	if j.Offset != "" {
		offset, err = time.ParseDuration(j.Offset)
		if err != nil {
			return 0, 0, fmt.Errorf("parse offset: %w", err)
		}
	}
	return event, offset, nil
}
