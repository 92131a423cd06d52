package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/dizegn/Prevtech-sub001/model"
	"github.com/shopspring/decimal"
)

// ErrLookupNotFound signals that a lookup key resolved to no record.
// It is an expected, recoverable outcome, not a transport failure.
var ErrLookupNotFound = errors.New("lookup: record not found")

// PublicationLookup resolves a court-publication reference to a record.
type PublicationLookup interface {
	FindByReference(ctx context.Context, ref string) (*model.PublicationRecord, error)
}

// BenefitLookup resolves a national id (CPF) to a government-benefit record.
type BenefitLookup interface {
	FindByNationalID(ctx context.Context, nationalID string) (*model.BenefitRecord, error)
}

// NormalizeBenefitKey strips everything but digits from a CPF-like key,
// so "123.456.789-00" and "12345678900" address the same record.
func NormalizeBenefitKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePublicationKey trims and upper-cases a publication reference.
func NormalizePublicationKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// StubPublicationLookup serves deterministic publication fixtures. It is the
// default adapter when the lookup provider is "stub" and backs the tests.
type StubPublicationLookup struct {
	records map[string]*model.PublicationRecord
}

func NewStubPublicationLookup() *StubPublicationLookup {
	return &StubPublicationLookup{
		records: map[string]*model.PublicationRecord{
			"DJE-2024-0458712": {
				CaseNumber:      "5012345-67.2024.4.03.6183",
				Title:           "Ação Previdenciária - Aposentadoria por Tempo de Contribuição",
				CourtCode:       "TRF3",
				CourtName:       "Justiça Federal de São Paulo",
				PublicationDate: "2024-08-12",
				Parties:         "José Aparecido de Oliveira x INSS",
				Summary:         "Intimação da sentença de procedência. Prazo de 30 dias para recurso.",
			},
			"DJE-2024-0502133": {
				CaseNumber:      "1004821-33.2024.8.26.0053",
				Title:           "Mandado de Segurança - Restabelecimento de Benefício",
				CourtCode:       "TJSP",
				CourtName:       "Tribunal de Justiça de São Paulo",
				PublicationDate: "2024-09-03",
				Parties:         "Antônia Moreira Duarte x Fazenda Pública",
				Summary:         "Despacho determinando a juntada de documentos em 15 dias.",
			},
		},
	}
}

func (s *StubPublicationLookup) FindByReference(ctx context.Context, ref string) (*model.PublicationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := s.records[NormalizePublicationKey(ref)]
	if !ok {
		return nil, ErrLookupNotFound
	}
	cp := *rec
	return &cp, nil
}

// StubBenefitLookup serves deterministic benefit fixtures keyed by CPF digits.
type StubBenefitLookup struct {
	records map[string]*model.BenefitRecord
}

func NewStubBenefitLookup() *StubBenefitLookup {
	return &StubBenefitLookup{
		records: map[string]*model.BenefitRecord{
			"12345678900": {
				Beneficiary:        "Maria da Silva Santos",
				NationalID:         "123.456.789-00",
				CaseNumber:         "NB 42/187.654.321-0",
				BenefitType:        "Aposentadoria por Tempo de Contribuição",
				FilingDate:         "2023-11-27",
				StatusLabel:        "Indeferido",
				EstimatedValue:     decimal.RequireFromString("15840.00"),
				ContributionMonths: 412,
				HasCNIS:            true,
			},
			"98765432100": {
				Beneficiary:        "Pedro Henrique Barbosa",
				NationalID:         "987.654.321-00",
				CaseNumber:         "NB 31/203.118.907-4",
				BenefitType:        "Auxílio por Incapacidade Temporária",
				FilingDate:         "2024-02-14",
				StatusLabel:        "Cessado",
				EstimatedValue:     decimal.RequireFromString("2412.50"),
				ContributionMonths: 96,
				HasCNIS:            false,
			},
		},
	}
}

func (s *StubBenefitLookup) FindByNationalID(ctx context.Context, nationalID string) (*model.BenefitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := s.records[NormalizeBenefitKey(nationalID)]
	if !ok {
		return nil, ErrLookupNotFound
	}
	cp := *rec
	return &cp, nil
}
