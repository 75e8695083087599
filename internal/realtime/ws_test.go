package realtime

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
)

// readServerFrame parses one unmasked server-to-client frame.
func readServerFrame(t *testing.T, r io.Reader) (byte, []byte) {
	t.Helper()
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		t.Fatalf("read header: %v", err)
	}
	opcode := hdr[0] & 0x0F
	length := uint64(hdr[1] & 0x7F)
	switch length {
	case 126:
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			t.Fatalf("read extended length: %v", err)
		}
		length = uint64(binary.BigEndian.Uint16(ext[:]))
	case 127:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			t.Fatalf("read extended length: %v", err)
		}
		length = binary.BigEndian.Uint64(ext[:])
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	return opcode, payload
}

// Concurrent WriteJSON calls on one connection must emit whole frames:
// every payload read back parses as one of the written messages.
func TestWriteJSONConcurrent(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := &Conn{conn: server}

	const writers = 8
	const perWriter = 20

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				msg := map[string]int{"writer": w, "seq": i}
				if err := conn.WriteJSON(msg); err != nil {
					t.Errorf("WriteJSON: %v", err)
					return
				}
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		conn.Close()
		server.Close()
		close(done)
	}()

	frames := 0
	for {
		opcode, payload := readServerFrame(t, client)
		if opcode == opClose {
			break
		}
		if opcode != opText {
			t.Fatalf("opcode = %#x, want text frame", opcode)
		}
		var msg struct {
			Writer int `json:"writer"`
			Seq    int `json:"seq"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("frame %d payload corrupt: %v (%q)", frames, err, payload)
		}
		if msg.Writer < 0 || msg.Writer >= writers || msg.Seq < 0 || msg.Seq >= perWriter {
			t.Fatalf("frame %d out of range: %+v", frames, msg)
		}
		frames++
	}
	<-done
	if frames != writers*perWriter {
		t.Errorf("read %d frames, want %d", frames, writers*perWriter)
	}
}
