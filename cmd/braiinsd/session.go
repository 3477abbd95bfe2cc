package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/braiins-os/braiins-core-go/minerapi"
	"github.com/braiins-os/braiins-core-go/minerlog"
)

// maxRequestSize bounds one line of the monitoring API, adapted from
// the donor Client's MaxMessageSize bound on a single stratum message.
const maxRequestSize = 4096

// wireRequest is the on-the-wire shape of a monitoring/control
// request: command, possibly a '+'-joined batch, plus an optional
// parameter shared across the batch.
type wireRequest struct {
	Command   interface{} `json:"command"`
	Parameter interface{} `json:"parameter"`
}

// apiSession serves one line-oriented monitoring-API connection: read
// a JSON line, run it through the dispatcher, write the JSON
// response. This is the demonstration host's adaptation of the donor
// Client's read/process/send goroutine trio (pool/client.go) to the
// spec's external "TCP listener that feeds command requests and
// serializes responses" -- the dispatcher itself is the spec's core
// contract; this session is only the thin transport wrapping it.
type apiSession struct {
	conn       net.Conn
	dispatcher *minerapi.Dispatcher
	log        minerlog.Logger

	reader  *bufio.Reader
	encoder *json.Encoder
	readCh  chan []byte
	sendCh  chan interface{}

	ctx    context.Context
	cancel context.CancelFunc
}

func newAPISession(conn net.Conn, dispatcher *minerapi.Dispatcher, log minerlog.Logger) *apiSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &apiSession{
		conn:       conn,
		dispatcher: dispatcher,
		log:        log,
		reader:     bufio.NewReaderSize(conn, maxRequestSize),
		encoder:    json.NewEncoder(conn),
		readCh:     make(chan []byte),
		sendCh:     make(chan interface{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// read pulls newline-delimited JSON requests off the wire. Must run
// as a goroutine.
func (s *apiSession) read() {
	for {
		if err := s.conn.SetDeadline(time.Now().Add(4 * time.Minute)); err != nil {
			s.log.Errorf("unable to set deadline: %v", err)
			s.cancel()
			return
		}
		// ReadSlice fails with bufio.ErrBufferFull once a line exceeds
		// maxRequestSize, which ends the session.
		line, err := s.reader.ReadSlice('\n')
		if err != nil {
			if err != io.EOF {
				s.log.Errorf("read error: %v", err)
			}
			s.cancel()
			return
		}
		line = append([]byte(nil), line...)
		select {
		case s.readCh <- line:
		case <-s.ctx.Done():
			return
		}
	}
}

// process decodes each line into a wireRequest, runs it through the
// dispatcher, and queues the result for send. Must run as a goroutine.
func (s *apiSession) process() {
	defer s.cancel()
	for {
		select {
		case <-s.ctx.Done():
			return

		case line := <-s.readCh:
			var req wireRequest
			if err := json.Unmarshal(line, &req); err != nil {
				s.log.Errorf("malformed request: %v: %s", err, spew.Sdump(line))
				continue
			}
			result := s.dispatcher.Handle(s.ctx, minerapi.Request{
				Command:   req.Command,
				Parameter: req.Parameter,
			})
			select {
			case s.sendCh <- result:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

// send serializes dispatcher results back to the connection. Must run
// as a goroutine.
func (s *apiSession) send() {
	for {
		select {
		case <-s.ctx.Done():
			return

		case result := <-s.sendCh:
			if err := s.encoder.Encode(result); err != nil {
				s.log.Errorf("response encoding error: %v", err)
				s.cancel()
				return
			}
		}
	}
}

// serve runs the session's read/process/send loops until the
// connection is closed or an unrecoverable error occurs, then closes
// the connection.
func (s *apiSession) serve() {
	go s.read()
	go s.process()
	go s.send()
	<-s.ctx.Done()
	s.conn.Close()
}
