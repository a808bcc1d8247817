package sdk

import (
	"encoding/json"
	"fmt"
	"sort"
)

// TokenRef identifies a token inside a collection.
type TokenRef struct {
	CollectionID uint64 `json:"collectionId"`
	TokenID      uint64 `json:"tokenId"`
}

func (r TokenRef) String() string {
	return fmt.Sprintf("%d/%d", r.CollectionID, r.TokenID)
}

type accountTokensQuery struct {
	Address      string `url:"address"`
	CollectionID uint64 `url:"collectionId"`
}

type accountTokensResponse struct {
	Tokens []TokenRef `json:"tokens"`
}

type tokenQuery struct {
	CollectionID uint64 `url:"collectionId"`
	TokenID      uint64 `url:"tokenId"`
}

// Localized is a localizable value; "_" holds the default text.
type Localized struct {
	Default interface{} `json:"_"`
}

func (l Localized) String() string {
	if l.Default == nil {
		return ""
	}
	return fmt.Sprint(l.Default)
}

// Attribute is a decoded token attribute.
type Attribute struct {
	Name  Localized `json:"name"`
	Value Localized `json:"value"`
}

// Image points at a token's image.
type Image struct {
	URLInfix string `json:"urlInfix,omitempty"`
	FullURL  string `json:"fullUrl,omitempty"`
}

// CollectionInfo is the collection part of a token response.
type CollectionInfo struct {
	ID          uint64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TokenPrefix string `json:"tokenPrefix"`
}

// Token is the decoded data of one token.
type Token struct {
	CollectionID uint64               `json:"collectionId"`
	TokenID      uint64               `json:"tokenId"`
	Owner        string               `json:"owner"`
	Image        Image                `json:"image"`
	Collection   CollectionInfo       `json:"collection"`
	Attributes   map[string]Attribute `json:"attributes"`
}

// SortedAttributes returns the attributes ordered by their key.
func (t *Token) SortedAttributes() []Attribute {
	keys := make([]string, 0, len(t.Attributes))
	for k := range t.Attributes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	out := make([]Attribute, len(keys))
	for i, k := range keys {
		out[i] = t.Attributes[k]
	}
	return out
}

// TokenData is the on-chain data of a token to create.
type TokenData struct {
	Image Image `json:"image"`
}

// NewToken describes one token of a create-multiple request.
type NewToken struct {
	Owner string    `json:"owner"`
	Data  TokenData `json:"data"`
}

// CreateMultipleRequest is the body of tokens/create-multiple.
type CreateMultipleRequest struct {
	Address      string     `json:"address"`
	CollectionID uint64     `json:"collectionId"`
	Tokens       []NewToken `json:"tokens"`
}

// EvmSendRequest is the body of evm/send.
type EvmSendRequest struct {
	Address         string                 `json:"address"`
	ContractAddress string                 `json:"contractAddress"`
	ABI             json.RawMessage        `json:"abi"`
	FuncName        string                 `json:"funcName"`
	Args            map[string]interface{} `json:"args"`
	GasLimit        uint64                 `json:"gasLimit,omitempty"`
}

// SignerPayloadRaw is the raw payload a wallet signs.
type SignerPayloadRaw struct {
	Address string `json:"address"`
	Data    string `json:"data"`
	Type    string `json:"type"`
}

// UnsignedTxPayload is the result of building an extrinsic.
type UnsignedTxPayload struct {
	SignerPayloadJSON json.RawMessage  `json:"signerPayloadJSON"`
	SignerPayloadRaw  SignerPayloadRaw `json:"signerPayloadRaw"`
	SignerPayloadHex  string           `json:"signerPayloadHex"`
}

type submitRequest struct {
	SignerPayloadJSON json.RawMessage `json:"signerPayloadJSON"`
	Signature         string          `json:"signature"`
	SignatureType     string          `json:"signatureType,omitempty"`
}

type submitResponse struct {
	Hash string `json:"hash"`
}

type statusQuery struct {
	Hash string `url:"hash"`
}

// ExtrinsicStatus reports the progress of a submitted extrinsic.
type ExtrinsicStatus struct {
	Hash        string          `json:"hash"`
	Status      string          `json:"status"`
	IsCompleted bool            `json:"isCompleted"`
	IsError     bool            `json:"isError"`
	BlockHash   string          `json:"blockHash"`
	BlockIndex  int64           `json:"blockIndex"`
	Error       json.RawMessage `json:"error,omitempty"`
	Parsed      json.RawMessage `json:"parsed,omitempty"`
}

// CreatedTokens decodes the tokens reported by a create-multiple extrinsic.
// Other extrinsics report none.
func (s *ExtrinsicStatus) CreatedTokens() []TokenRef {
	if len(s.Parsed) == 0 {
		return nil
	}
	var refs []TokenRef
	if err := json.Unmarshal(s.Parsed, &refs); err != nil {
		return nil
	}
	return refs
}
