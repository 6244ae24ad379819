package hisaab

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// jsonl persistence for the records the core exchanges with its
// collaborators. The pure logic never touches I/O; these run at the CLI
// boundary only.

// EncodeRecords writes records as one JSON object per line.
func EncodeRecords(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("could not encode record %s: %w", r.ID, err)
		}
	}
	return nil
}

// DecodeRecords reads records from a jsonl stream. Unknown fields are
// ignored; empty lines are skipped.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	err := decodeLines(r, func(line []byte) error {
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// DecodePayments reads payment records from a jsonl stream.
func DecodePayments(r io.Reader) ([]Payment, error) {
	var pays []Payment
	err := decodeLines(r, func(line []byte) error {
		var p Payment
		if err := json.Unmarshal(line, &p); err != nil {
			return err
		}
		pays = append(pays, p)
		return nil
	})
	return pays, err
}

// DecodeOrders reads order records from a jsonl stream. Each source line is
// also kept as the order's raw payload, so per-merchant shapes that don't map
// onto the typed fields stay reachable for Flatten.
func DecodeOrders(r io.Reader) ([]Order, error) {
	var orders []Order
	err := decodeLines(r, func(line []byte) error {
		var o Order
		if err := json.Unmarshal(line, &o); err != nil {
			return err
		}
		if len(o.Raw) == 0 {
			o.Raw = append(json.RawMessage(nil), line...)
		}
		orders = append(orders, o)
		return nil
	})
	return orders, err
}

func decodeLines(r io.Reader, each func(line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := each(line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}
