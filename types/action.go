package types

// Action is one raw instruction inside a transaction: the target account, the
// operation name, the authorizations it claims, and the payload bytes whose
// layout only the account's ABI knows.
type Action struct {
	Account       Name              `json:"account"`
	Name          Name              `json:"name"`
	Authorization []PermissionLevel `json:"authorization"`
	Data          HexBytes          `json:"data"`
}
