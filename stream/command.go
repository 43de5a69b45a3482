package stream

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/gnsskit/sbfkit/block"
	"github.com/gnsskit/sbfkit/cmdmsg"
	"github.com/gnsskit/sbfkit/errs"
	"github.com/gnsskit/sbfkit/internal/oid"
)

// CommandExecutor runs one encoded command message and returns the
// receiver's reply message. Implementations are external; the stream
// treats both buffers as opaque.
type CommandExecutor interface {
	Execute(msg []byte) ([]byte, error)
}

// InsertCommandOverTime encodes one ASCII command into a command
// message, wraps it in a Commands block stamped with t, and inserts it
// at its time position.
//
// Parameters:
//   - t: GNSS timestamp of the inserted block
//   - command: ASCII command text, mnemonic first
//
// Returns:
//   - error: errs.ErrInvalidTimestamp when t is not a valid time,
//     errs.ErrInvalidCommand on empty or oversized command text,
//     errs.ErrReadOnly
func (s *Stream) InsertCommandOverTime(t float64, command string) error {
	if err := s.writable(); err != nil {
		return err
	}
	if !block.IsTimeValid(t) || t < 0 {
		return errs.ErrInvalidTimestamp
	}

	b, err := commandBlock(t, command)
	if err != nil {
		return err
	}
	s.insert(b)
	s.mutated()

	return nil
}

// InsertFileCommandOverTime reads a command file and inserts each
// command at its time position. Every non-empty line holds a GNSS
// timestamp in seconds followed by the command text. Lines starting
// with '#' are skipped.
//
// Returns:
//   - error: errs.ErrFileOpen when the file cannot be read,
//     errs.ErrInvalidCommand on a malformed line, errs.ErrReadOnly,
//     errs.ErrCancelled
func (s *Stream) InsertFileCommandOverTime(path string) error {
	if err := s.writable(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errs.ErrFileOpen
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := s.checkCancel(); err != nil {
			s.mutated()
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		if len(fields) != 2 {
			return errs.ErrInvalidCommand
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || t < 0 {
			return errs.ErrInvalidCommand
		}

		b, err := commandBlock(t, strings.TrimSpace(fields[1]))
		if err != nil {
			return err
		}
		s.insert(b)
		s.report(OpCommands, 1, 1)
	}
	if scanner.Err() != nil {
		return errs.ErrFileRead
	}
	s.mutated()

	return nil
}

// TranslateCommands runs every Commands block in the stream through
// exec, in stream order, and returns the concatenated ASCII replies
// one per line. The cursor is not moved.
//
// Returns:
//   - string: The reply text
//   - error: errs.ErrNilReference when exec is nil,
//     errs.ErrInvalidCommand when a reply does not parse,
//     errs.ErrCancelled; a failing executor maps to
//     errs.ErrInvalidCommand
func (s *Stream) TranslateCommands(exec CommandExecutor) (string, error) {
	if exec == nil {
		return "", errs.ErrNilReference
	}

	var out strings.Builder
	for _, b := range s.blocks {
		if err := s.checkCancel(); err != nil {
			return out.String(), err
		}
		if b.Number() != block.NumCommands || !b.CheckValidity() {
			continue
		}
		if len(b.Body()) < 6 {
			return out.String(), errs.ErrInvalidCommand
		}

		msg, err := cmdmsg.MessageBytes(b.Body()[6:])
		if err != nil {
			return out.String(), errs.ErrInvalidCommand
		}
		reply, err := exec.Execute(msg)
		if err != nil {
			return out.String(), errs.ErrInvalidCommand
		}

		// Replies carry the ASCII text as the payload of the first
		// binding of a Response PDU.
		_, at, err := cmdmsg.ParsePDUHeader(reply)
		if err != nil {
			return out.String(), errs.ErrInvalidCommand
		}
		_, value, _, err := cmdmsg.ParseVarBinding(reply, at)
		if err != nil && !errs.IsWarning(err) {
			return out.String(), errs.ErrInvalidCommand
		}
		out.Write(value)
		out.WriteByte('\n')
	}

	return out.String(), nil
}

// commandBlock builds one Commands block holding command encoded as a
// Set message, stamped with t.
func commandBlock(t float64, command string) (block.Block, error) {
	command = strings.TrimSpace(command)
	if command == "" || len(command) > cmdmsg.MaxPayloadSize {
		return block.Block{}, errs.ErrInvalidCommand
	}

	mnemonic := command
	if i := strings.IndexAny(command, ", "); i >= 0 {
		mnemonic = command[:i]
	}
	tuple := oid.Derive(mnemonic)
	id := cmdmsg.OID{
		Appl:          tuple[0],
		Group:         tuple[1],
		Command:       tuple[2],
		ArgTableEntry: tuple[3],
		IndTableArg:   tuple[4],
		TableIndex:    tuple[5],
	}

	buf := make([]byte, cmdmsg.MaxMessageSize)
	if _, err := cmdmsg.InitHeader(buf, cmdmsg.AuthUser); err != nil {
		return block.Block{}, err
	}
	if _, err := cmdmsg.AddPDUHeader(buf, cmdmsg.Set, 0); err != nil {
		return block.Block{}, err
	}
	if _, err := cmdmsg.AddVarBinding(buf, id, []byte(command)); err != nil {
		return block.Block{}, err
	}
	msg, err := cmdmsg.MessageBytes(buf)
	if err != nil {
		return block.Block{}, err
	}

	tow, wnc := block.SplitGnssTime(t)

	return block.New(block.ID(block.NumCommands), tow, wnc, msg)
}
