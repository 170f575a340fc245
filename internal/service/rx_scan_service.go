package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/config"
	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/utils"
)

// maxScanWidth bounds the stored scan image. Rekognition caps request images
// at 5MB and phone photos routinely exceed that.
const maxScanWidth = 1600

// RxScanService turns photographed paper prescriptions into structured
// prescription values using AWS Rekognition text detection.
type RxScanService struct {
	repo              *repository.RxScanRepository
	s3Svc             *S3Service
	rekognitionClient *rekognition.Client
}

// NewRxScanService creates a new rx scan service
func NewRxScanService(
	repo *repository.RxScanRepository,
	s3Svc *S3Service,
	apiCfg *config.Config,
) *RxScanService {
	// Credentials come from the environment via the default chain.
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(apiCfg.AWS.RekognitionRegion),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load AWS SDK config")
	}

	return &RxScanService{
		repo:              repo,
		s3Svc:             s3Svc,
		rekognitionClient: rekognition.NewFromConfig(awsCfg),
	}
}

// textLine is one detected line of text with its detection confidence.
type textLine struct {
	Text       string
	Confidence float64
}

// ProcessScan stores a prescription photo and runs text detection over it.
// Detection failure is not an error to the caller: the scan comes back in
// Failed status and the counter enters the values by hand.
func (s *RxScanService) ProcessScan(ctx context.Context, patientID *int, branchID int, imageData []byte) (*models.RxScan, error) {
	normalized, err := s.normalizeScanImage(imageData)
	if err != nil {
		log.Warn().Err(err).Msg("rejecting unreadable scan upload")
		return nil, utils.ErrInvalidImage
	}

	key, err := s.s3Svc.UploadRxScan(ctx, branchID, normalized)
	if err != nil {
		return nil, err
	}

	scan := &models.RxScan{
		PatientID: patientID,
		BranchID:  branchID,
		ImageKey:  key,
		Status:    models.ScanUploaded,
	}
	if err := s.repo.Create(scan); err != nil {
		return nil, err
	}

	lines, err := s.awsDetectText(ctx, normalized)
	if err != nil {
		log.Error().Err(err).Int("scanId", scan.ID).Msg("text detection failed")
		if err := s.repo.MarkFailed(scan.ID, nil); err != nil {
			log.Error().Err(err).Int("scanId", scan.ID).Msg("failed to record scan failure")
		}
		scan.Status = models.ScanFailed
		return scan, nil
	}

	texts := make([]string, 0, len(lines))
	var confSum float64
	for _, l := range lines {
		texts = append(texts, l.Text)
		confSum += l.Confidence
	}
	rawText := strings.Join(texts, "\n")

	parsed := parseRx(texts)
	if parsed.FieldsFound() == 0 {
		log.Warn().Int("scanId", scan.ID).Msg("no prescription values recognized in scan")
		if err := s.repo.MarkFailed(scan.ID, &rawText); err != nil {
			log.Error().Err(err).Int("scanId", scan.ID).Msg("failed to record scan failure")
		}
		scan.Status = models.ScanFailed
		scan.RawText = &rawText
		return scan, nil
	}

	confidence := 0.0
	if len(lines) > 0 {
		confidence = confSum / float64(len(lines))
	}

	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parsed prescription: %w", err)
	}
	if err := s.repo.MarkParsed(scan.ID, rawText, parsedJSON, confidence); err != nil {
		return nil, err
	}

	scan.Status = models.ScanParsed
	scan.RawText = &rawText
	scan.ParsedJSON = parsedJSON
	scan.Confidence = &confidence

	log.Info().
		Int("scanId", scan.ID).
		Int("fields", parsed.FieldsFound()).
		Float64("confidence", confidence).
		Msg("prescription scan parsed")

	return scan, nil
}

// GetScan retrieves a scan by ID
func (s *RxScanService) GetScan(id int) (*models.RxScan, error) {
	scan, err := s.repo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrScanNotFound
		}
		return nil, err
	}
	return scan, nil
}

// GetPatientScans returns a patient's scans, newest first.
func (s *RxScanService) GetPatientScans(patientID int) ([]models.RxScan, error) {
	return s.repo.GetByPatient(patientID)
}

// ImageURL returns the public URL of a stored scan image.
func (s *RxScanService) ImageURL(key string) string {
	return s.s3Svc.GetObjectURL(key)
}

// normalizeScanImage re-encodes the upload as a bounded JPEG, fixing EXIF
// orientation so the lab sees the slip the right way up.
func (s *RxScanService) normalizeScanImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > maxScanWidth {
		img = imaging.Resize(img, maxScanWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// awsDetectText calls AWS Rekognition DetectText
func (s *RxScanService) awsDetectText(ctx context.Context, image []byte) ([]textLine, error) {
	out, err := s.rekognitionClient.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect text: %w", err)
	}

	// WORD detections repeat the line content, keep lines only
	lines := make([]textLine, 0, len(out.TextDetections))
	for _, td := range out.TextDetections {
		if td.Type != types.TextTypesLine || td.DetectedText == nil {
			continue
		}
		lines = append(lines, textLine{
			Text:       aws.ToString(td.DetectedText),
			Confidence: float64(aws.ToFloat32(td.Confidence)),
		})
	}
	return lines, nil
}
