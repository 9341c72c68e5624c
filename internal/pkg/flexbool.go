package pkg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexBool 兼容前端传 true 或 "true" 两种写法
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var raw bool
	if err := json.Unmarshal(data, &raw); err == nil {
		*b = FlexBool(raw)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flexbool: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("flexbool: %q is not a bool", s)
	}
	*b = FlexBool(v)
	return nil
}

func (b FlexBool) Bool() bool { return bool(b) }
