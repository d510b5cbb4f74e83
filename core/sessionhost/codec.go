package sessionhost

import (
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/segsession/core/session"
)

func encode(data session.Data) ([]byte, error) {
	if data == nil {
		data = session.Data{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return raw, nil
}

func decode(raw []byte) (session.Data, error) {
	data := session.Data{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return session.Data{}, errors.Join(ErrDecode, err)
	}
	return data, nil
}
