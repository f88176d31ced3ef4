package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/mrdg/ducker/audio"
)

func main() {
	var (
		wavFile    = flag.String("wav", "", "wav file to loop through the effect")
		configFile = flag.String("config", "", "restore effect state from this file")
		runFile    = flag.String("run", "", "run commands from this file before the prompt")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	var config string
	if *configFile != "" {
		data, err := ioutil.ReadFile(*configFile)
		if err != nil {
			log.Fatal(err)
		}
		config = string(data)
	}

	dir, _ := os.Getwd()
	ducker := audio.New(dir, config, logger)

	pl := &player{}
	if *wavFile != "" {
		snd, err := loadSound(*wavFile)
		if err != nil {
			log.Fatal(err)
		}
		pl.load(snd)
	}

	sink, err := audio.NewSink()
	if err != nil {
		// Offline renders still work without a device, so keep going.
		logger.Printf("audio device unavailable: %v", err)
	} else {
		sink.AddSources(pl)
		sink.AddProcessors(ducker)
		if err := sink.Start(); err != nil {
			log.Fatal(err)
		}
		defer sink.Stop()
	}

	env := &env{ducker: ducker, player: pl}

	if *runFile != "" {
		f, err := os.Open(*runFile)
		if err != nil {
			log.Fatal(err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if err := env.eval(line); err != nil {
				log.Fatal(err)
			}
		}
		if err := scanner.Err(); err != nil {
			log.Fatal(err)
		}
		f.Close()
	}

	if err := repl(env); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
