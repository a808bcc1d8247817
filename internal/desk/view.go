package desk

import (
	"fmt"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/sdk"
)

// TokenLines renders a token list as "<collectionId>/<tokenId>" lines.
func TokenLines(refs []sdk.TokenRef) []string {
	lines := make([]string, len(refs))
	for i, r := range refs {
		lines[i] = r.String()
	}
	return lines
}

// TokenView is the display form of one token.
type TokenView struct {
	ImageURL    string   `json:"imageUrl"`
	Prefix      string   `json:"prefix"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Attributes  []string `json:"attributes"`
}

// ViewToken builds the display form of tok.
func ViewToken(tok *sdk.Token) TokenView {
	v := TokenView{
		ImageURL:    tok.Image.FullURL,
		Prefix:      tok.Collection.TokenPrefix,
		Name:        tok.Collection.Name,
		Description: tok.Collection.Description,
		Owner:       tok.Owner,
		Attributes:  []string{},
	}
	for _, a := range tok.SortedAttributes() {
		v.Attributes = append(v.Attributes, fmt.Sprintf("%s = %s", a.Name, a.Value))
	}
	return v
}

// Lines renders the token view as text lines.
func (v TokenView) Lines() []string {
	lines := []string{
		"Image: " + v.ImageURL,
		"Prefix: " + v.Prefix,
		"Name: " + v.Name,
		"Description: " + v.Description,
		"Owner: " + v.Owner,
	}
	for _, a := range v.Attributes {
		lines = append(lines, "  "+a)
	}
	return lines
}

// AccountLabels renders accounts the way account pickers show them.
func AccountLabels(accts []account.Account) []string {
	labels := make([]string, len(accts))
	for i := range accts {
		labels[i] = accts[i].Label()
	}
	return labels
}
