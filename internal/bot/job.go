package bot

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/stickerpress/stickerpress/internal/archive"
	"github.com/stickerpress/stickerpress/internal/convert"
	"github.com/stickerpress/stickerpress/internal/display"
	"github.com/stickerpress/stickerpress/internal/staging"
)

// runJob executes one conversion request end to end: download the source
// document(s), convert into the chosen format(s), and deliver either the
// single result directly or the packed archives. The staging area is
// removed when the job finishes, success or not.
func (b *Bot) runJob(ctx context.Context, chatID int64, messageID int, sess *session, choice string) {
	formats, err := chosenFormats(choice)
	if err != nil {
		b.log.Warn("Chat %d requested unknown format %q", chatID, choice)
		b.edit(chatID, messageID, "Unknown format. Send the sticker again.")
		return
	}

	base := sess.SetName
	if base == "" {
		base = "sticker"
	}

	b.edit(chatID, messageID, "Converting, this can take a moment...")

	area, err := staging.New(b.cfg.StagingRoot, base)
	if err != nil {
		b.log.Error("Creating staging area failed: %v", err)
		b.edit(chatID, messageID, "Something went wrong on my end. Try again later.")
		return
	}
	defer func() {
		if err := area.Remove(); err != nil {
			b.log.Warn("Removing staging area %s failed: %v", area.Path, err)
		}
	}()

	assets, err := b.collectAssets(ctx, sess, base)
	if err != nil {
		b.log.Error("Collecting stickers for chat %d failed: %v", chatID, err)
		b.edit(chatID, messageID, "Downloading the sticker(s) failed. Try again later.")
		return
	}

	outputs, failed := b.convertAll(ctx, assets, formats, area)
	if len(outputs) == 0 {
		b.edit(chatID, messageID, "Conversion failed for every sticker. Try again later.")
		return
	}
	if failed > 0 {
		b.send(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("%d conversion(s) failed and were skipped.", failed)))
	}

	if len(outputs) == 1 {
		b.send(tgbotapi.NewDocument(chatID, tgbotapi.FilePath(outputs[0].Path)))
		b.edit(chatID, messageID, "Done.")
		return
	}

	if err := b.deliverArchives(chatID, base, outputs, area); err != nil {
		b.log.Error("Packing archives for chat %d failed: %v", chatID, err)
		b.edit(chatID, messageID, "Packing the results failed. Try again later.")
		return
	}
	b.edit(chatID, messageID, fmt.Sprintf("Done: %d file(s) converted.", len(outputs)))
}

func chosenFormats(choice string) ([]convert.Format, error) {
	if choice == "all" {
		return convert.Formats(), nil
	}
	f, err := convert.ParseFormat(choice)
	if err != nil {
		return nil, err
	}
	return []convert.Format{f}, nil
}

// collectAssets downloads and decodes every document the session refers
// to. In whole-set mode individual download failures are skipped; the job
// fails only when nothing could be fetched.
func (b *Bot) collectAssets(ctx context.Context, sess *session, base string) ([]convert.Asset, error) {
	if !sess.WholeSet {
		doc, err := b.downloadSticker(ctx, sess.FileID)
		if err != nil {
			return nil, err
		}
		return []convert.Asset{{Name: base, Index: 0, Doc: doc}}, nil
	}

	set, err := b.api.GetStickerSet(tgbotapi.GetStickerSetConfig{Name: sess.SetName})
	if err != nil {
		return nil, fmt.Errorf("fetch sticker set %q: %w", sess.SetName, err)
	}

	var assets []convert.Asset
	for i, st := range set.Stickers {
		if !st.IsAnimated {
			continue
		}
		doc, err := b.downloadSticker(ctx, st.FileID)
		if err != nil {
			b.log.Warn("Skipping sticker %d of set %q: %v", i, sess.SetName, err)
			continue
		}
		assets = append(assets, convert.Asset{Name: base, Index: i, Doc: doc})
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no animated stickers fetched from set %q", sess.SetName)
	}
	return assets, nil
}

// convertAll runs every asset × format pair, returning the successful
// outputs and the number of failures. A failure never aborts the batch.
func (b *Bot) convertAll(ctx context.Context, assets []convert.Asset, formats []convert.Format, area *staging.Area) ([]convert.OutputFile, int) {
	var outputs []convert.OutputFile
	failed := 0
	for _, asset := range assets {
		for _, format := range formats {
			out, err := b.conv.Convert(ctx, asset, format, area.Path)
			if err != nil {
				b.log.Warn("Conversion failed: %v", err)
				failed++
				continue
			}
			b.log.Debug("Converted %s (%s)", out.Name, display.FormatBytes(out.Size))
			outputs = append(outputs, out)
		}
	}
	return outputs, failed
}

// deliverArchives packs outputs into size-bounded ZIP archives and sends
// each one. Oversized singletons are sent anyway with a warning, since
// Telegram may still accept them for some account tiers.
func (b *Bot) deliverArchives(chatID int64, base string, outputs []convert.OutputFile, area *staging.Area) error {
	if sample, err := os.ReadFile(outputs[0].Path); err == nil {
		b.log.Debug("Estimated compression ratio %.2f", archive.EstimateRatio(sample))
	}

	parts, err := archive.Pack(outputs, b.cfg.MaxArchiveBytes)
	if err != nil {
		return err
	}

	for i, part := range parts {
		name := archive.Name(base, i+1, len(parts))
		path := area.Join(name)
		if err := archive.Write(part, path); err != nil {
			return err
		}
		if part.Oversized {
			b.log.Warn("Archive %s is oversized (%s)", name, display.FormatBytes(part.Size))
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"%s exceeds the usual upload limit (%s) and may be rejected.",
				name, display.FormatBytes(part.Size))))
		}
		b.send(tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path)))
	}
	return nil
}
