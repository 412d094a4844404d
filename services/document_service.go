package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services/storage"
	"github.com/Auwalkay/uni-portal/utils/pdfvalidation"
)

// Upload slots an applicant may fill. Passport photographs are image
// uploads; everything else is a scanned PDF credential.
var documentTypes = map[string]pdfvalidation.PDFLimits{
	"birth_certificate": pdfvalidation.CredentialLimits,
	"olevel_result":     pdfvalidation.CredentialLimits,
	"jamb_result":       pdfvalidation.CredentialLimits,
	"transcript":        pdfvalidation.TranscriptLimits,
}

const passportDocumentType = "passport"

const maxPassportSizeBytes = 2 * 1024 * 1024

const presignTTL = 15 * time.Minute

// DocumentService stores applicant uploads in object storage and
// tracks their verification state.
type DocumentService struct {
	db     *gorm.DB
	spaces *storage.SpacesClient
}

// NewDocumentService creates a new document service
func NewDocumentService(db *gorm.DB, spaces *storage.SpacesClient) *DocumentService {
	return &DocumentService{db: db, spaces: spaces}
}

// ValidDocumentType reports whether docType is an accepted upload slot.
func ValidDocumentType(docType string) bool {
	if docType == passportDocumentType {
		return true
	}
	_, ok := documentTypes[docType]
	return ok
}

// Upload validates and stores one document, replacing any previous
// upload of the same type. A replaced document resets to pending.
func (s *DocumentService) Upload(ctx context.Context, applicantID uint, docType string, file *multipart.FileHeader) (*model.ApplicantDocument, error) {
	if !ValidDocumentType(docType) {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}

	if docType == passportDocumentType {
		if file.Size > maxPassportSizeBytes {
			return nil, fmt.Errorf("passport photograph exceeds 2MB limit")
		}
	} else {
		result, err := pdfvalidation.ValidatePDFFile(file, documentTypes[docType])
		if err != nil {
			return nil, fmt.Errorf("failed to validate document: %w", err)
		}
		if !result.Valid {
			return nil, fmt.Errorf("invalid %s upload: %s", docType, result.Error)
		}
	}

	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer content.Close()

	key := storage.GenerateKey(fmt.Sprintf("applicants/%d/%s", applicantID, docType), file.Filename)
	contentType := storage.GetContentType(file.Filename)
	if _, err := s.spaces.UploadFile(ctx, key, content, contentType); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	var doc model.ApplicantDocument
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous model.ApplicantDocument
		err := tx.Where("applicant_id = ? AND type = ?", applicantID, docType).First(&previous).Error
		switch err {
		case nil:
			previous.Path = key
			previous.Status = model.DocumentStatusPending
			previous.Remark = ""
			if err := tx.Save(&previous).Error; err != nil {
				return fmt.Errorf("failed to replace document: %w", err)
			}
			doc = previous
			return nil
		case gorm.ErrRecordNotFound:
			doc = model.ApplicantDocument{
				ApplicantID: applicantID,
				Type:        docType,
				Path:        key,
				Status:      model.DocumentStatusPending,
			}
			if err := tx.Create(&doc).Error; err != nil {
				return fmt.Errorf("failed to record document: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("failed to check existing document: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns an applicant's documents.
func (s *DocumentService) List(ctx context.Context, applicantID uint) ([]model.ApplicantDocument, error) {
	var docs []model.ApplicantDocument
	if err := s.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("type ASC").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// DownloadURL returns a short-lived presigned URL for a reviewer to
// open the stored file.
func (s *DocumentService) DownloadURL(ctx context.Context, documentID uint) (string, error) {
	var doc model.ApplicantDocument
	if err := s.db.WithContext(ctx).First(&doc, documentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", fmt.Errorf("document %d not found", documentID)
		}
		return "", fmt.Errorf("failed to load document: %w", err)
	}
	return s.spaces.GetPresignedURL(doc.Path, presignTTL)
}

// Review marks a document verified or rejected. Rejection requires a
// remark telling the applicant what to fix.
func (s *DocumentService) Review(ctx context.Context, documentID uint, status model.DocumentStatus, remark string) (*model.ApplicantDocument, error) {
	if status != model.DocumentStatusVerified && status != model.DocumentStatusRejected {
		return nil, fmt.Errorf("invalid review status %q", status)
	}
	if status == model.DocumentStatusRejected && remark == "" {
		return nil, fmt.Errorf("rejection requires a remark")
	}

	var doc model.ApplicantDocument
	if err := s.db.WithContext(ctx).First(&doc, documentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document %d not found", documentID)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	doc.Status = status
	doc.Remark = remark
	if err := s.db.WithContext(ctx).Save(&doc).Error; err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &doc, nil
}
