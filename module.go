package main

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const (
	moduleFile   = "Tran Module Information"
	defaultEntry = "main.tran"
)

type tranModule struct {
	Package  string `yaml:"Package"`
	Entry    string `yaml:"Entry,omitempty"`
	LogLevel string `yaml:"LogLevel,omitempty"`
}

func (m tranModule) entry() string {
	if m.Entry == "" {
		return defaultEntry
	}
	return m.Entry
}

func readModule(dir string) (doc tranModule, err error) {
	data, err := ioutil.ReadFile(filepath.Join(dir, moduleFile))
	if err != nil {
		return doc, tracerr.Wrap(err)
	}

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return doc, tracerr.Wrap(err)
	}

	return doc, nil
}

func writeModule(dir string, doc tranModule) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return tracerr.Wrap(err)
	}

	return tracerr.Wrap(ioutil.WriteFile(filepath.Join(dir, moduleFile), out, 0644))
}

const helloWorld = `class main
    shared start()
        console.write("hello, world")
`

// initModule writes the module information file and, when there is no entry
// source yet, a starter program.
func initModule(dir, name string) error {
	doc := tranModule{
		Package: name,
		Entry:   defaultEntry,
	}
	if err := writeModule(dir, doc); err != nil {
		return err
	}

	entry := filepath.Join(dir, doc.entry())
	if _, err := os.Stat(entry); err == nil {
		return nil
	}
	return tracerr.Wrap(ioutil.WriteFile(entry, []byte(helloWorld), 0644))
}
