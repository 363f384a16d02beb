package pubchem

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/repo"
)

const DefaultAddr = "https://pubchem.ncbi.nlm.nih.gov"

type property struct {
	Title            string `json:"Title"`
	MolecularFormula string `json:"MolecularFormula"`
	MolecularWeight  any    `json:"MolecularWeight"`
	IUPACName        string `json:"IUPACName"`
	IsomericSMILES   string `json:"IsomericSMILES"`
	CanonicalSMILES  string `json:"CanonicalSMILES"`
	SMILES           string `json:"SMILES"`
}

type propertyResponse struct {
	PropertyTable struct {
		Properties []property `json:"Properties"`
	} `json:"PropertyTable"`
}

type pubchemImpl struct {
	client *resty.Client
}

func NewPubChemRepo(baseURL string, timeout time.Duration) repo.PubChemRepo {
	if baseURL == "" {
		baseURL = DefaultAddr
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &pubchemImpl{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(1).
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
	}
}

func (p *pubchemImpl) GetCompoundByCAS(ctx context.Context, cas string) (*repo.CompoundInfo, error) {
	const properties = "Title,MolecularFormula,MolecularWeight,IUPACName,IsomericSMILES,CanonicalSMILES,SMILES"

	resp := &propertyResponse{}
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"cas":   cas,
			"props": properties,
		}).
		SetResult(resp).
		Get("/rest/pug/compound/name/{cas}/property/{props}/JSON")
	if err != nil {
		logger.Errorf(ctx, "pubchem request %s err: %+v", cas, err)
		return nil, code.RPCHttpErr.WithErr(err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, code.ReagentCASNotFindErr.WithMsg(cas)
	default:
		return nil, code.RPCHttpCodeErr.WithMsgf("pubchem status %d", res.StatusCode())
	}
	if len(resp.PropertyTable.Properties) == 0 {
		return nil, code.ReagentCASNotFindErr.WithMsg(cas)
	}

	prop := resp.PropertyTable.Properties[0]
	name := prop.Title
	if name == "" {
		name = prop.IUPACName
	}
	smiles := prop.IsomericSMILES
	if smiles == "" {
		smiles = prop.CanonicalSMILES
	}
	if smiles == "" {
		smiles = prop.SMILES
	}
	weight := ""
	if prop.MolecularWeight != nil {
		weight = fmt.Sprint(prop.MolecularWeight)
	}

	return &repo.CompoundInfo{
		Name:             name,
		MolecularFormula: prop.MolecularFormula,
		SMILES:           smiles,
		MolecularWeight:  weight,
	}, nil
}
