package gateway

import (
	"encoding/json"
	"fmt"

	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/user"
)

func unmarshalCollection(data []byte, dst any) error {
	switch d := dst.(type) {
	case *[]user.User:
		var v []user.User
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*d = v
	case *[]lifeguard.Lifeguard:
		var v []lifeguard.Lifeguard
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*d = v
	case *[]audit.Audit:
		var v []audit.Audit
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*d = v
	case *[]activity.Entry:
		var v []activity.Entry
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*d = v
	default:
		return fmt.Errorf("unsupported destination %T", dst)
	}
	return nil
}
