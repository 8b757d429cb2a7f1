package runoff

import (
	"encoding/json"
	"os"
)

// appendJSON marshals the data as a single line of JSON and appends it to the
// file at path, creating the file if it does not exist.
func appendJSON(path string, data interface{}) (err error) {
	var line []byte
	if line, err = json.Marshal(data); err != nil {
		return err
	}

	var fobj *os.File
	if fobj, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err != nil {
		return err
	}
	defer fobj.Close()

	if _, err = fobj.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}
