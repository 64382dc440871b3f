package services

import (
	"law_catalog_app_go/models"
	"log"

	"gorm.io/gorm"
)

// Default option set keys
const (
	OptionSetKeyProcedureObject = "objeto-procedimento"
	OptionSetKeyPracticeArea    = "area-atuacao"
	OptionSetKeyCaseStatus      = "status-processo"
)

// SeedDefaultOptionSets seeds the option sets the application ships with.
// Each set is seeded at most once; reruns are no-ops.
func SeedDefaultOptionSets(db *gorm.DB) error {
	if err := seedProcedureObjects(db); err != nil {
		log.Printf("Error seeding procedure objects: %v", err)
		return err
	}
	if err := seedPracticeAreas(db); err != nil {
		log.Printf("Error seeding practice areas: %v", err)
		return err
	}
	if err := seedCaseStatuses(db); err != nil {
		log.Printf("Error seeding case statuses: %v", err)
		return err
	}
	return nil
}

// seedOptionSet creates one set with its items unless the key already exists
func seedOptionSet(db *gorm.DB, key, label, description string, items []models.OptionItem) error {
	var existing models.OptionSet
	if err := db.Where("key = ?", key).First(&existing).Error; err == nil {
		return nil // Already seeded
	}

	set := models.OptionSet{Key: key, Label: label, Description: description}
	if err := db.Create(&set).Error; err != nil {
		return err
	}

	for i := range items {
		items[i].OptionSetID = set.ID
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedProcedureObjects(db *gorm.DB) error {
	return seedOptionSet(db,
		OptionSetKeyProcedureObject,
		"Objeto do Procedimento",
		"Objeto principal do procedimento ou atendimento",
		[]models.OptionItem{
			{Value: "consulta", Label: "Consulta", SortOrder: 1, IsActive: true, IsDefault: true},
			{Value: "contrato", Label: "Elaboração de Contrato", SortOrder: 2, IsActive: true},
			{Value: "parecer", Label: "Parecer Jurídico", SortOrder: 3, IsActive: true},
			{Value: "audiencia", Label: "Audiência", SortOrder: 4, IsActive: true},
			{Value: "recurso", Label: "Recurso", SortOrder: 5, IsActive: true},
			{Value: "outro", Label: "Outro", SortOrder: 99, IsActive: true},
		})
}

func seedPracticeAreas(db *gorm.DB) error {
	return seedOptionSet(db,
		OptionSetKeyPracticeArea,
		"Área de Atuação",
		"Área do direito em que o caso se enquadra",
		[]models.OptionItem{
			{Value: "civel", Label: "Cível", SortOrder: 1, IsActive: true},
			{Value: "trabalhista", Label: "Trabalhista", SortOrder: 2, IsActive: true},
			{Value: "tributario", Label: "Tributário", SortOrder: 3, IsActive: true},
			{Value: "previdenciario", Label: "Previdenciário", SortOrder: 4, IsActive: true},
			{Value: "familia", Label: "Família e Sucessões", SortOrder: 5, IsActive: true},
			{Value: "consumidor", Label: "Direito do Consumidor", SortOrder: 6, IsActive: true},
		})
}

func seedCaseStatuses(db *gorm.DB) error {
	return seedOptionSet(db,
		OptionSetKeyCaseStatus,
		"Status do Processo",
		"Situação atual do processo",
		[]models.OptionItem{
			{Value: "em-andamento", Label: "Em Andamento", SortOrder: 1, IsActive: true, IsDefault: true},
			{Value: "suspenso", Label: "Suspenso", SortOrder: 2, IsActive: true},
			{Value: "arquivado", Label: "Arquivado", SortOrder: 3, IsActive: true},
			{Value: "encerrado", Label: "Encerrado", SortOrder: 4, IsActive: true},
		})
}
