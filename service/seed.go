package service

import (
	"log/slog"

	"github.com/dizegn/Prevtech-sub001/model"
	"github.com/shopspring/decimal"
)

// SeedCatalog loads the representative working set used on fresh installs
// and by the scenario tests.
func SeedCatalog(c *Catalog) {
	seeds := []*model.Process{
		{
			CaseNumber:  "5012345-67.2024.4.03.6183",
			Title:       "Ação Previdenciária - Aposentadoria por Idade",
			Client:      "José Aparecido de Oliveira",
			Court:       "TRF3",
			Status:      model.StatusActive,
			Phase:       "Instrução",
			Value:       decimal.RequireFromString("28500.00"),
			Responsible: "Dr. Carlos Mendes",
			Source:      model.SourceManual,
			NextHearing: "2026-10-15",
		},
		{
			CaseNumber:  "5009871-12.2023.4.03.6301",
			Title:       "Ação de Revisão de Benefício - Teto Previdenciário",
			Client:      "Maria Aparecida Gomes",
			Court:       "TRF3",
			Status:      model.StatusActive,
			Phase:       "Aguardando perícia",
			Value:       decimal.RequireFromString("41200.00"),
			Responsible: "Dra. Ana Paula Ferreira",
			Source:      model.SourceManual,
		},
		{
			CaseNumber:  "1004821-33.2024.8.26.0053",
			Title:       "Ação Ordinária - Restabelecimento de Auxílio-Doença",
			Client:      "Pedro Henrique Barbosa",
			Court:       "TJSP",
			Status:      model.StatusSuspended,
			Phase:       "Suspenso por acordo",
			Value:       decimal.RequireFromString("9600.00"),
			Responsible: "Dr. Roberto Lima",
			Source:      model.SourceManual,
		},
		{
			CaseNumber:  "5002214-90.2022.4.04.7100",
			Title:       "Aposentadoria Especial - Agente Nocivo Ruído",
			Client:      "Antônia Moreira Duarte",
			Court:       "TRF4",
			Status:      model.StatusActive,
			Phase:       "Sentença pendente",
			Value:       decimal.RequireFromString("63750.00"),
			Responsible: "Dra. Juliana Castro",
			Source:      model.SourceManual,
		},
		{
			CaseNumber:  "5007733-28.2021.4.03.6105",
			Title:       "Mandado de Segurança - Averbação de Tempo Rural",
			Client:      "Sebastião Ferreira Prado",
			Court:       "TRF3",
			Status:      model.StatusAdjudicated,
			Phase:       "Sentenciado",
			Value:       decimal.RequireFromString("18300.00"),
			Responsible: "Dr. Carlos Mendes",
			Source:      model.SourceManual,
		},
		{
			CaseNumber:  "5001118-44.2020.4.03.6119",
			Title:       "Pensão por Morte - Dependente Inválido",
			Client:      "Helena Cristina Vasques",
			Court:       "TRF3",
			Status:      model.StatusArchived,
			Phase:       "Concluído",
			Value:       decimal.RequireFromString("12450.00"),
			Responsible: "Dra. Ana Paula Ferreira",
			Source:      model.SourceManual,
		},
	}

	for _, p := range seeds {
		c.Insert(p)
	}
	slog.Info("catalog seeded", "count", len(seeds))
}
